package router

import (
	"github.com/dollers-electro/internal/config"
	adminhandlers "github.com/dollers-electro/internal/http/handlers/admin"
	publichandlers "github.com/dollers-electro/internal/http/handlers/public"
	"github.com/dollers-electro/internal/logger"
	"github.com/dollers-electro/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter builds the gin engine with every storefront and back-office route.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	loginRule := NewRateLimitRule("rate:login", cfg.Security.LoginRateLimit, "too many login attempts, please try again later")
	adminLoginRule := NewRateLimitRule("rate:admin_login", cfg.Security.LoginRateLimit, "too many login attempts, please try again later")
	otpRule := NewRateLimitRule("rate:otp", cfg.Security.OTPSendRateLimit, "too many verification codes requested, please try again later")
	chatRule := NewRateLimitRule("rate:chat", cfg.Security.ChatRateLimit, "too many chat messages, please slow down")
	newsletterRule := NewRateLimitRule("rate:newsletter", cfg.Security.NewsletterRateLimit, "too many subscription attempts, please try again later")

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// Storefront, no authentication.
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.ListProducts)
			public.GET("/products/:id", publicHandler.GetProduct)
			public.GET("/products/:id/reviews", publicHandler.ListProductReviews)
			public.GET("/categories", publicHandler.ListCategories)
			public.GET("/captcha/image", publicHandler.GetCaptcha)
			public.POST("/chat", RateLimitMiddleware(chatRule, KeyByIP), publicHandler.Chat)
			public.POST("/newsletter/subscribe", RateLimitMiddleware(newsletterRule, KeyByIP), publicHandler.SubscribeNewsletter)
			public.DELETE("/newsletter/unsubscribe/:token", publicHandler.UnsubscribeNewsletter)
		}

		// Customer account lifecycle.
		auth := apiV1.Group("/auth")
		{
			auth.POST("/send-verify-code", RateLimitMiddleware(otpRule, KeyByIPAndJSONField("email")), publicHandler.SendVerifyCode)
			auth.POST("/register", publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
			auth.POST("/reset-password", publicHandler.ResetPassword)
		}

		// Customer routes, JWT required.
		user := apiV1.Group("")
		user.Use(UserJWTMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.Profile)

			user.GET("/cart", publicHandler.GetCart)
			user.POST("/cart/items", publicHandler.AddCartItem)
			user.PUT("/cart/items", publicHandler.UpdateCartItem)
			user.DELETE("/cart/items/:product_id", publicHandler.RemoveCartItem)
			user.DELETE("/cart", publicHandler.ClearCart)
			user.POST("/cart/promo", publicHandler.ApplyCartPromo)
			user.DELETE("/cart/promo", publicHandler.RemoveCartPromo)
			user.POST("/cart/validate-stock", publicHandler.ValidateCartStock)

			user.POST("/orders", publicHandler.Checkout)
			user.POST("/orders/preview", publicHandler.PreviewOrder)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.POST("/orders/:id/cancel", publicHandler.CancelOrder)

			user.POST("/products/:id/reviews", publicHandler.CreateReview)

			user.GET("/wishlist", publicHandler.ListWishlist)
			user.POST("/wishlist/items", publicHandler.AddWishlistItem)
			user.DELETE("/wishlist/items/:product_id", publicHandler.RemoveWishlistItem)
			user.POST("/wishlist/items/:product_id/move-to-cart", publicHandler.MoveWishlistItemToCart)
		}

		// Back office.
		admin := apiV1.Group("/admin")
		{
			admin.POST("/login", RateLimitMiddleware(adminLoginRule, KeyByIP), adminHandler.Login)

			authorized := admin.Use(
				AdminJWTMiddleware(cfg.JWT.SecretKey, c.AdminRepo),
				AdminRBACMiddleware(c.AuthzService),
			)
			{
				authorized.GET("/me", adminHandler.Me)
				authorized.GET("/dashboard", adminHandler.Dashboard)

				authorized.GET("/products", adminHandler.ListProducts)
				authorized.GET("/products/:id", adminHandler.GetProduct)
				authorized.POST("/products", adminHandler.CreateProduct)
				authorized.PUT("/products/:id", adminHandler.UpdateProduct)
				authorized.DELETE("/products/:id", adminHandler.DeleteProduct)
				authorized.POST("/products/:id/restock", adminHandler.RestockProduct)

				authorized.GET("/categories", adminHandler.ListCategories)
				authorized.POST("/categories", adminHandler.CreateCategory)
				authorized.PUT("/categories/:id", adminHandler.UpdateCategory)
				authorized.DELETE("/categories/:id", adminHandler.DeleteCategory)

				authorized.GET("/orders", adminHandler.ListOrders)
				authorized.GET("/orders/:id", adminHandler.GetOrder)
				authorized.POST("/orders/:id/events", adminHandler.ApplyOrderEvent)

				authorized.GET("/promo-codes", adminHandler.ListPromoCodes)
				authorized.GET("/promo-codes/:id", adminHandler.GetPromoCode)
				authorized.POST("/promo-codes", adminHandler.CreatePromoCode)
				authorized.PUT("/promo-codes/:id", adminHandler.UpdatePromoCode)
				authorized.DELETE("/promo-codes/:id", adminHandler.DeletePromoCode)

				authorized.GET("/alerts", adminHandler.ListAlerts)
				authorized.POST("/alerts/check", adminHandler.CheckAlerts)
				authorized.POST("/alerts/:id/acknowledge", adminHandler.AcknowledgeAlert)
				authorized.POST("/alerts/:id/dismiss", adminHandler.DismissAlert)
				authorized.POST("/alerts/:id/resolve", adminHandler.ResolveAlert)

				authorized.GET("/reviews", adminHandler.ListReviews)
				authorized.POST("/reviews/:id/moderate", adminHandler.ModerateReview)
				authorized.DELETE("/reviews/:id", adminHandler.DeleteReview)

				authorized.GET("/newsletter/subscribers", adminHandler.ListSubscribers)

				authorized.GET("/users", adminHandler.ListUsers)
				authorized.GET("/users/:id", adminHandler.GetUser)
				authorized.PATCH("/users/:id/status", adminHandler.SetUserStatus)

				authorized.GET("/quizzes", adminHandler.ListQuizzes)
				authorized.GET("/quizzes/:id", adminHandler.GetQuiz)
				authorized.POST("/quizzes", adminHandler.CreateQuiz)
				authorized.PUT("/quizzes/:id", adminHandler.UpdateQuiz)
				authorized.DELETE("/quizzes/:id", adminHandler.DeleteQuiz)
				authorized.POST("/quizzes/:id/questions", adminHandler.AddQuizQuestion)
				authorized.DELETE("/quizzes/questions/:question_id", adminHandler.RemoveQuizQuestion)
				authorized.POST("/quizzes/:id/submit", adminHandler.SubmitQuiz)
				authorized.GET("/quizzes/attempts/mine", adminHandler.ListMyAttempts)
				authorized.GET("/quizzes/leaderboard", adminHandler.QuizLeaderboard)

				authorized.GET("/admins", adminHandler.ListAdmins)
				authorized.POST("/admins", adminHandler.CreateAdmin)
				authorized.DELETE("/admins/:id", adminHandler.DeleteAdmin)
				authorized.GET("/admins/roles", adminHandler.ListRoles)
				authorized.GET("/admins/:id/roles", adminHandler.GetAdminRoles)
				authorized.PUT("/admins/:id/roles", adminHandler.SetAdminRoles)
			}
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
