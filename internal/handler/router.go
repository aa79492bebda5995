package handler

import (
	"net/http"

	"github.com/ashherx/coin-bounce/internal/config"
	"github.com/ashherx/coin-bounce/internal/logging"
	"github.com/ashherx/coin-bounce/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

type Services struct {
	Auth     *service.AuthService
	Blogs    *service.BlogService
	Comments *service.CommentService
	Images   *service.ImageStore
}

// NewRouter wires every route onto a gin engine and wraps it with CORS.
func NewRouter(svcs Services, corsCfg config.CORSConfig, log logging.Logger) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log))

	r.GET("/ping", Ping)
	r.GET("/", Root)
	r.GET("/openapi.json", OpenAPIDoc)
	r.Static(service.StoragePrefix, svcs.Images.Dir())

	auth := NewAuthHandler(svcs.Auth, log)
	r.POST("/register", auth.Register)
	r.POST("/login", auth.Login)
	r.POST("/logout", auth.Logout)
	r.GET("/refresh", auth.Refresh)

	guarded := r.Group("/")
	guarded.Use(AuthMiddleware(svcs.Auth, log))
	guarded.GET("/me", auth.Me)

	blogs := NewBlogHandler(svcs.Blogs, log)
	guarded.POST("/blog", blogs.CreateBlog)
	guarded.GET("/blog/all", blogs.ListBlogs)
	guarded.GET("/blog/:id", blogs.GetBlog)
	guarded.PUT("/blog", blogs.UpdateBlog)
	guarded.DELETE("/blog/:id", blogs.DeleteBlog)

	comments := NewCommentHandler(svcs.Comments, log)
	guarded.POST("/comment", comments.CreateComment)
	guarded.GET("/comment/:id", comments.ListComments)

	return cors.New(cors.Options{
		AllowedOrigins:   corsCfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(r)
}
