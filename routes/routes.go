package routes

import (
	"net/http"

	"github.com/Prabhu6626/Glonix-Website/admin"
	"github.com/Prabhu6626/Glonix-Website/auth"
	"github.com/Prabhu6626/Glonix-Website/cartstore"
	"github.com/Prabhu6626/Glonix-Website/catalog"
	"github.com/Prabhu6626/Glonix-Website/checkout"
	"github.com/Prabhu6626/Glonix-Website/contact"
	"github.com/Prabhu6626/Glonix-Website/enquiries"
	"github.com/Prabhu6626/Glonix-Website/middleware"
	"github.com/Prabhu6626/Glonix-Website/orders"
	"github.com/Prabhu6626/Glonix-Website/ratelim"
	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/productpic/*filepath", http.Dir("static/productpic"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, mw *middleware.Auth, h *auth.Handlers) {
	router.POST("/api/auth/register", rl.Limit(h.Register))
	router.POST("/api/auth/login", rl.Limit(h.Login))
	router.GET("/api/auth/me", mw.Authenticate(h.Me))
}

func AddCatalogRoutes(router *httprouter.Router, mw *middleware.Auth, h *catalog.Handlers) {
	router.GET("/api/products", h.ListProducts)
	router.GET("/api/products/:productid", h.GetProduct)

	router.POST("/api/admin/products", mw.Authenticate(mw.RequireAdmin(h.CreateProduct)))
	router.PUT("/api/admin/products/:productid", mw.Authenticate(mw.RequireAdmin(h.UpdateProduct)))
	router.DELETE("/api/admin/products/:productid", mw.Authenticate(mw.RequireAdmin(h.DeleteProduct)))
	router.POST("/api/admin/products/:productid/images", mw.Authenticate(mw.RequireAdmin(h.UploadImages)))
}

func AddCartRoutes(router *httprouter.Router, mw *middleware.Auth, h *cartstore.Handlers) {
	router.GET("/api/cart", mw.Authenticate(h.GetCart))
	router.POST("/api/cart/items", mw.Authenticate(h.AddItem))
	router.PUT("/api/cart", mw.Authenticate(h.SetItems))
	router.DELETE("/api/cart", mw.Authenticate(h.ClearCart))
}

func AddCheckoutRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, mw *middleware.Auth, h *checkout.Handlers) {
	router.POST("/api/checkout/create-order", rl.Limit(mw.Authenticate(h.CreateOrder)))
	router.POST("/api/checkout/verify-payment", rl.Limit(mw.Authenticate(h.VerifyPayment)))
}

func AddOrderRoutes(router *httprouter.Router, mw *middleware.Auth, h *orders.Handlers) {
	router.GET("/api/orders", mw.Authenticate(h.MyOrders))
	router.GET("/api/orders/:orderid", mw.Authenticate(h.GetOrder))
	router.GET("/api/orders/:orderid/invoice", mw.Authenticate(h.Invoice))

	router.GET("/api/admin/orders", mw.Authenticate(mw.RequireAdmin(h.AdminList)))
	router.PUT("/api/admin/orders/:orderid", mw.Authenticate(mw.RequireAdmin(h.AdminUpdate)))
}

func AddEnquiryRoutes(router *httprouter.Router, mw *middleware.Auth, h *enquiries.Handlers) {
	router.POST("/api/enquiries", mw.Authenticate(h.Submit))
	router.GET("/api/enquiries", mw.Authenticate(h.MyEnquiries))
	router.GET("/api/enquiries/:enquiryid", mw.Authenticate(h.GetEnquiry))

	router.GET("/api/admin/enquiries", mw.Authenticate(mw.RequireAdmin(h.AdminList)))
	router.POST("/api/admin/enquiries/:enquiryid/reply", mw.Authenticate(mw.RequireAdmin(h.AdminReply)))
	router.PUT("/api/admin/enquiries/:enquiryid", mw.Authenticate(mw.RequireAdmin(h.AdminUpdateStatus)))
}

func AddContactRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, mw *middleware.Auth, h *contact.Handlers) {
	router.POST("/api/contact", rl.Limit(h.Submit))

	router.GET("/api/admin/contact", mw.Authenticate(mw.RequireAdmin(h.AdminList)))
	router.PUT("/api/admin/contact/:id/replied", mw.Authenticate(mw.RequireAdmin(h.AdminMarkReplied)))
}

func AddAdminRoutes(router *httprouter.Router, mw *middleware.Auth, h *admin.Handlers) {
	router.GET("/api/admin/analytics/overview", mw.Authenticate(mw.RequireAdmin(h.Overview)))
	router.GET("/api/admin/analytics/funnel", mw.Authenticate(mw.RequireAdmin(h.FunnelBreakdown)))
	router.GET("/api/admin/users", mw.Authenticate(mw.RequireAdmin(h.ListUsers)))
}
