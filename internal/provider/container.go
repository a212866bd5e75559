package provider

import (
	"github.com/dollers-electro/internal/advisor"
	"github.com/dollers-electro/internal/authz"
	"github.com/dollers-electro/internal/cache"
	"github.com/dollers-electro/internal/config"
	"github.com/dollers-electro/internal/logger"
	"github.com/dollers-electro/internal/models"
	"github.com/dollers-electro/internal/queue"
	"github.com/dollers-electro/internal/repository"
	"github.com/dollers-electro/internal/service"
)

// Container wires repositories and services once at startup. HTTP handlers
// and the worker both borrow from it.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo           repository.AdminRepository
	UserRepo            repository.UserRepository
	EmailVerifyCodeRepo repository.EmailVerifyCodeRepository
	ProductRepo         repository.ProductRepository
	CategoryRepo        repository.CategoryRepository
	CartRepo            repository.CartRepository
	PromoCodeRepo       repository.PromoCodeRepository
	PromoUsageRepo      repository.PromoUsageRepository
	OrderRepo           repository.OrderRepository
	AlertRepo           repository.LowStockAlertRepository
	ReviewRepo          repository.ReviewRepository
	WishlistRepo        repository.WishlistRepository
	NewsletterRepo      repository.NewsletterRepository
	QuizRepo            repository.QuizRepository

	// Services
	AuthzService      *authz.Service
	AuthService       *service.AuthService
	UserAuthService   *service.UserAuthService
	EmailService      *service.EmailService
	CaptchaService    *service.CaptchaService
	ProductService    *service.ProductService
	CartService       *service.CartService
	PricingService    *service.PricingService
	PromoService      *service.PromoService
	OrderService      *service.OrderService
	LowStockService   *service.LowStockService
	ReviewService     *service.ReviewService
	WishlistService   *service.WishlistService
	NewsletterService *service.NewsletterService
	QuizService       *service.QuizService
	ChatService       *service.ChatService
	DashboardService  *service.DashboardService
}

// NewContainer initializes the container.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.EmailVerifyCodeRepo = repository.NewEmailVerifyCodeRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.PromoCodeRepo = repository.NewPromoCodeRepository(db)
	c.PromoUsageRepo = repository.NewPromoUsageRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.AlertRepo = repository.NewLowStockAlertRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
	c.WishlistRepo = repository.NewWishlistRepository(db)
	c.NewsletterRepo = repository.NewNewsletterRepository(db)
	c.QuizRepo = repository.NewQuizRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(&c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.EmailVerifyCodeRepo, c.EmailService)

	c.PricingService = service.NewPricingService(&c.Config.Order)
	c.PromoService = service.NewPromoService(c.PromoCodeRepo, c.PromoUsageRepo, c.OrderRepo, c.PricingService)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, c.PromoService, c.PricingService, c.Config.Cart.ExpireDays)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo, c.CartRepo, c.PromoCodeRepo, c.PromoUsageRepo, c.PromoService, c.PricingService, c.QueueClient, c.Config.Order.PaymentExpireMinutes)
	c.LowStockService = service.NewLowStockService(c.AlertRepo, c.ProductRepo, c.Config.Alerts.DefaultLowStockThreshold)
	c.ReviewService = service.NewReviewService(c.ReviewRepo, c.ProductRepo, c.OrderRepo)
	c.WishlistService = service.NewWishlistService(c.WishlistRepo, c.ProductRepo, c.CartService)
	c.NewsletterService = service.NewNewsletterService(c.NewsletterRepo)
	c.QuizService = service.NewQuizService(c.QuizRepo, c.AdminRepo)
	c.ChatService = service.NewChatService(advisor.NewClient(&c.Config.Advisor), c.ProductRepo)
	c.DashboardService = service.NewDashboardService(c.ProductRepo, c.UserRepo, c.OrderRepo, c.AlertRepo, c.ReviewRepo, c.NewsletterRepo)
}
