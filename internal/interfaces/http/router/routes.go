package router

import (
	"github.com/gin-gonic/gin"
	"github.com/shopfront/backend/internal/interfaces/http/handler"
)

// Handlers bundles the HTTP handlers of the shop API
type Handlers struct {
	Auth      *handler.AuthHandler
	Category  *handler.CategoryHandler
	Product   *handler.ProductHandler
	Cart      *handler.CartHandler
	Order     *handler.OrderHandler
	Inventory *handler.InventoryHandler
	Promotion *handler.PromotionHandler
	Blog      *handler.BlogHandler
	System    *handler.SystemHandler
}

// Guards are the access levels routes are registered with.
// Optional reads a token when present, Required rejects anonymous callers and
// Staff additionally rejects non-staff users. AuthLimit throttles credential
// endpoints and may be nil.
type Guards struct {
	Optional  gin.HandlerFunc
	Required  gin.HandlerFunc
	Staff     gin.HandlerFunc
	AuthLimit gin.HandlerFunc
}

func (g Guards) admin() []gin.HandlerFunc {
	return []gin.HandlerFunc{g.Required, g.Staff}
}

func (g Guards) authLimit() []gin.HandlerFunc {
	if g.AuthLimit == nil {
		return nil
	}
	return []gin.HandlerFunc{g.AuthLimit}
}

// ShopRoutes builds the domain groups of the shop API
func ShopRoutes(h Handlers, g Guards) []RouteRegistrar {
	system := NewDomainGroup("system", "")
	system.GET("/health", h.System.Health)
	system.GET("/system/info", h.System.Info)

	authGroup := NewDomainGroup("auth", "/auth")
	public := authGroup.Group("auth-public", "").Use(g.authLimit()...)
	public.POST("/register", h.Auth.Register)
	public.POST("/login", h.Auth.Login)
	public.POST("/refresh", h.Auth.Refresh)
	session := authGroup.Group("auth-session", "").Use(g.Required)
	session.POST("/logout", h.Auth.Logout)
	session.GET("/me", h.Auth.Me)
	session.PUT("/password", h.Auth.ChangePassword)

	catalog := NewDomainGroup("catalog", "/catalog")
	categories := catalog.Group("categories", "/categories")
	categories.GET("", h.Category.List)
	categories.GET("/:id", h.Category.GetByID)
	categories.Group("categories-admin", "").Use(g.admin()...).
		POST("", h.Category.Create).
		PUT("/:id", h.Category.Update).
		DELETE("/:id", h.Category.Delete)

	products := catalog.Group("products", "/products")
	products.GET("", h.Product.List)
	products.GET("/:id", h.Product.GetByID)
	products.GET("/slug/:slug", h.Product.GetBySlug)
	products.Group("products-admin", "").Use(g.admin()...).
		POST("", h.Product.Create).
		PUT("/:id", h.Product.Update).
		DELETE("/:id", h.Product.Delete).
		POST("/:id/images", h.Product.AddImage).
		POST("/:id/images/upload-url", h.Product.RequestImageUpload).
		DELETE("/:id/images/:image_id", h.Product.DeleteImage).
		PUT("/:id/attributes", h.Product.SetAttributes)

	promotions := NewDomainGroup("promotions", "/promotions")
	promotions.Group("promotions-public", "").Use(g.Optional).
		GET("", h.Promotion.List).
		GET("/:id", h.Promotion.Get).
		POST("/:id/evaluate", h.Promotion.Evaluate)
	promotions.Group("promotions-admin", "").Use(g.admin()...).
		POST("", h.Promotion.Create).
		PUT("/:id", h.Promotion.Update).
		DELETE("/:id", h.Promotion.Delete)

	blog := NewDomainGroup("blog", "/blog/posts")
	blog.Group("blog-public", "").Use(g.Optional).
		GET("", h.Blog.List).
		GET("/:slug", h.Blog.GetBySlug)
	blog.Group("blog-admin", "").Use(g.admin()...).
		POST("", h.Blog.Create).
		PUT("/:id", h.Blog.Update).
		DELETE("/:id", h.Blog.Delete).
		POST("/:id/publish", h.Blog.Publish).
		POST("/:id/unpublish", h.Blog.Unpublish)

	cart := NewDomainGroup("cart", "/cart").Use(g.Required)
	cart.GET("", h.Cart.Get)
	cart.DELETE("", h.Cart.Clear)
	cart.POST("/items", h.Cart.AddItem)
	cart.PUT("/items/:id", h.Cart.UpdateItem)
	cart.DELETE("/items/:id", h.Cart.RemoveItem)

	orders := NewDomainGroup("orders", "/orders").Use(g.Required)
	orders.GET("", h.Order.List)
	orders.GET("/:id", h.Order.Get)
	orders.POST("", h.Order.Place)
	orders.POST("/:id/cancel", h.Order.Cancel)
	orders.Group("orders-admin", "").Use(g.Staff).
		POST("/:id/confirm", h.Order.Confirm).
		POST("/:id/refund", h.Order.Refund)

	inventory := NewDomainGroup("inventory", "/inventory/:product_id").Use(g.admin()...)
	inventory.GET("", h.Inventory.Get)
	inventory.GET("/history", h.Inventory.History)
	inventory.POST("/adjust", h.Inventory.Adjust)
	inventory.PUT("/low-stock", h.Inventory.SetLowStock)

	return []RouteRegistrar{system, authGroup, catalog, promotions, blog, cart, orders, inventory}
}
