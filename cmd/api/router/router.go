package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	cors "github.com/rs/cors/wrapper/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"inkwell/auth"
	"inkwell/cmd/api/handlers"
	"inkwell/cmd/api/middleware"
	"inkwell/db"
	_ "inkwell/docs"
	"inkwell/services"
)

// New builds the HTTP engine with the full route table mounted under
// /api/v1. The id-specific blog routes use verb-suffixed paths so gin can
// tell them apart from /blogs/slug and /blogs/search.
func New(blogSvc *services.BlogService, authSvc *services.AuthService, jwt *auth.JWTManager) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestTrace())
	r.Use(cors.AllowAll())

	r.GET("/health", func(c *gin.Context) {
		if err := db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	{
		blogs := api.Group("/blogs")
		{
			blogs.GET("", handlers.ListBlogsHandler(blogSvc))
			blogs.GET("/search", handlers.SearchBlogsHandler(blogSvc))
			blogs.GET("/category/:category", handlers.BlogsByCategoryHandler(blogSvc))
			blogs.GET("/tag/:tag", handlers.BlogsByTagHandler(blogSvc))
			blogs.GET("/slug/:slug", handlers.GetBlogBySlugHandler(blogSvc))
			blogs.GET("/user/:userId", middleware.OptionalAuth(jwt), handlers.BlogsByUserHandler(blogSvc))
			blogs.GET("/my-blogs", middleware.RequireAuth(jwt), handlers.MyBlogsHandler(blogSvc))
			blogs.GET("/:id", handlers.GetBlogHandler(blogSvc))
			blogs.PATCH("/:id/view", handlers.IncrementBlogViewsHandler(blogSvc))

			blogs.POST("/create", middleware.RequireAuth(jwt), handlers.CreateBlogHandler(blogSvc))
			blogs.PATCH("/:id/update", middleware.RequireAuth(jwt), handlers.UpdateBlogHandler(blogSvc))
			blogs.DELETE("/:id/delete", middleware.RequireAuth(jwt), handlers.DeleteBlogHandler(blogSvc))
			blogs.PATCH("/:id/publish", middleware.RequireAuth(jwt), handlers.PublishBlogHandler(blogSvc))
			blogs.PATCH("/:id/unpublish", middleware.RequireAuth(jwt), handlers.UnpublishBlogHandler(blogSvc))

			blogs.POST("/:id/like", middleware.RequireAuth(jwt), handlers.LikeBlogHandler(blogSvc))
			blogs.POST("/:id/unlike", middleware.RequireAuth(jwt), handlers.UnlikeBlogHandler(blogSvc))
			blogs.POST("/:id/comment", middleware.RequireAuth(jwt), handlers.AddCommentHandler(blogSvc))
			blogs.DELETE("/:id/comment/:commentId", middleware.RequireAuth(jwt), handlers.DeleteCommentHandler(blogSvc))
		}

		users := api.Group("/users")
		{
			users.POST("/register", handlers.RegisterHandler(authSvc))
			users.POST("/login", handlers.LoginHandler(authSvc))
			users.GET("/me", middleware.RequireAuth(jwt), handlers.MeHandler(authSvc))
		}
	}

	return r
}
