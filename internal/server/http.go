package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/perfectcherry/cherry-server/internal/app"
	"github.com/perfectcherry/cherry-server/internal/db"
	"github.com/perfectcherry/cherry-server/internal/handler"
	"github.com/perfectcherry/cherry-server/internal/service/account"
	"github.com/perfectcherry/cherry-server/internal/service/image"
	"github.com/perfectcherry/cherry-server/internal/service/interest"
	"github.com/perfectcherry/cherry-server/internal/service/user"
)

// NewRouter builds the gin engine with every route of the public API.
//
// Registration and login are open; everything else sits behind the token
// guard plus the user-role check, so services can assume an authorized
// caller.
func NewRouter(appCtx *app.AppContext) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	userHandler := handler.NewUserHandler(user.NewService(appCtx))
	accountHandler := handler.NewAccountHandler(account.NewService(appCtx))
	interestHandler := handler.NewInterestHandler(interest.NewService(appCtx))
	imageHandler := handler.NewImageHandler(image.NewService(appCtx))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// open endpoints
	r.POST("/user/create", userHandler.Create)
	r.POST("/user/login", userHandler.Login)

	guarded := r.Group("/", AuthMiddleware(), RequireRole(db.RoleUser))
	{
		usr := guarded.Group("user")
		{
			usr.DELETE("/delete/:userID", userHandler.Delete)
			usr.PATCH("/resetPassword", userHandler.ResetPassword)
			usr.PATCH("/forgotPassword/:userName", userHandler.ForgotPassword)
		}

		acc := guarded.Group("userAccount")
		{
			acc.PATCH("/update", accountHandler.Update)
			acc.GET("/getAllUserDataById/:userId", accountHandler.AllDataByID)
			acc.GET("/getUserDataById/:userId", accountHandler.DataByID)
			acc.GET("/findPeopleNearMe/:userId", accountHandler.PeopleNearMe)
			acc.PATCH("/activate/:userID", accountHandler.Activate)
			acc.PATCH("/deactivate/:userID", accountHandler.Deactivate)
		}

		intr := guarded.Group("interest")
		{
			intr.POST("/send", interestHandler.Send)
			intr.PATCH("/accept/:interestID", interestHandler.Accept)
			intr.PATCH("/decline/:interestID", interestHandler.Decline)
			intr.GET("/sent/:userId", interestHandler.Sent)
			intr.GET("/received/:userId", interestHandler.Received)
			intr.GET("/acceptedByMe/:userId", interestHandler.AcceptedByMe)
			intr.GET("/acceptedByThem/:userId", interestHandler.AcceptedByThem)
			intr.GET("/declinedByMe/:userId", interestHandler.DeclinedByMe)
			intr.GET("/declinedByThem/:userId", interestHandler.DeclinedByThem)
			intr.GET("/pendingCount/:userId", interestHandler.PendingCount)
		}

		img := guarded.Group("image")
		{
			img.POST("/uploadProfilePhoto/:userID", imageHandler.UploadProfilePhoto)
			img.POST("/upload/:userID", imageHandler.Upload)
			img.GET("/getImagesByUserId/:userId", imageHandler.ImagesByUser)
			img.GET("/getProfilePhotoByUserId/:userId", imageHandler.ProfilePhotoByUser)
		}
	}

	return r
}
