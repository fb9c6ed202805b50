package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"

	"grocer/controllers"
	"grocer/middleware"
	"grocer/utils"

	"github.com/go-michi/michi"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/gorilla/handlers"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Fatal(utils.ErrorWithTrace(err, err.Error()))
	}

	connStr := os.Getenv("DATABASE_CONNECTION_STR")
	if connStr == "" {
		log.Fatal("DATABASE_CONNECTION_STR not set in .env file")
	}
	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET not set in .env file")
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	// Connect to the database
	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		log.Fatal(utils.ErrorWithTrace(err, err.Error()))
	}
	defer db.Close()

	// Set global db variable in controllers
	controllers.SetDB(db)

	// Handle migrations
	mig, err := migrate.New(
		"file://"+GetRootPath("database/migrations"),
		connStr,
	)
	if err != nil {
		log.Fatal(utils.ErrorWithTrace(err, err.Error()))
	}
	if err := mig.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal(utils.ErrorWithTrace(err, err.Error()))
		}
		log.Printf("migrations: %s", err.Error())
	}

	// Initialize the router and define routes
	r := michi.NewRouter()
	r.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir("./uploads"))))

	r.Route("/api", func(sub *michi.Router) {
		// Auth
		sub.HandleFunc("POST auth/signup", controllers.Signup)
		sub.HandleFunc("POST auth/login", controllers.Login)
		sub.HandleFunc("GET auth/user", middleware.RequireAuth(controllers.GetCurrentUser))

		// Catalog (public reads, admin writes)
		sub.HandleFunc("GET categories", controllers.GetCategories)
		sub.HandleFunc("GET categories/{slug}", controllers.GetCategoryBySlug)
		sub.HandleFunc("POST categories", middleware.RequireAdmin(controllers.CreateCategory))
		sub.HandleFunc("PUT categories/{id}", middleware.RequireAdmin(controllers.UpdateCategory))
		sub.HandleFunc("DELETE categories/{id}", middleware.RequireAdmin(controllers.DeleteCategory))

		sub.HandleFunc("GET products", controllers.GetProducts)
		sub.HandleFunc("GET products/{id}", controllers.GetProductById)
		sub.HandleFunc("POST products", middleware.RequireAdmin(controllers.CreateProduct))
		sub.HandleFunc("PUT products/{id}", middleware.RequireAdmin(controllers.UpdateProduct))
		sub.HandleFunc("DELETE products/{id}", middleware.RequireAdmin(controllers.DeleteProduct))

		// Cart
		sub.HandleFunc("GET cart", middleware.RequireAuth(controllers.GetCart))
		sub.HandleFunc("POST cart", middleware.RequireAuth(controllers.AddToCart))
		sub.HandleFunc("PUT cart/{id}", middleware.RequireAuth(controllers.UpdateCartItem))
		sub.HandleFunc("DELETE cart/{id}", middleware.RequireAuth(controllers.RemoveFromCart))
		sub.HandleFunc("DELETE cart", middleware.RequireAuth(controllers.ClearCart))

		// Coupons
		sub.HandleFunc("POST coupons/validate", middleware.RequireAuth(controllers.ValidateCoupon))
		sub.HandleFunc("GET coupons", middleware.RequireAdmin(controllers.GetCoupons))
		sub.HandleFunc("POST coupons", middleware.RequireAdmin(controllers.CreateCoupon))
		sub.HandleFunc("PUT coupons/{id}", middleware.RequireAdmin(controllers.UpdateCoupon))

		// Orders
		sub.HandleFunc("POST orders", middleware.RequireAuth(controllers.CreateOrder))
		sub.HandleFunc("GET orders", middleware.RequireAuth(controllers.GetOrders))
		sub.HandleFunc("GET orders/{id}", middleware.RequireAuth(controllers.GetOrderById))
		sub.HandleFunc("PUT orders/{id}/status", middleware.RequireAdmin(controllers.UpdateOrderStatus))
		sub.HandleFunc("PUT orders/{id}/payment-status", middleware.RequireAdmin(controllers.UpdateOrderPaymentStatus))

		// Payments
		sub.HandleFunc("POST create-payment-intent", middleware.RequireAuth(controllers.CreatePaymentIntent))

		// Feedback
		sub.HandleFunc("POST feedback", middleware.RequireAuth(controllers.CreateFeedback))
		sub.HandleFunc("GET feedback", middleware.RequireAdmin(controllers.GetAllFeedback))

		// Admin dashboard
		sub.HandleFunc("GET admin/stats", middleware.RequireAdmin(controllers.GetDashboardStats))
	})

	// Enable CORS
	corsOptions := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}), // Allow all origins (adjust as needed)
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	fmt.Printf("Server running on port %s 🚀\n", port)
	if err := http.ListenAndServe(":"+port, corsOptions(r)); err != nil {
		log.Fatal(utils.ErrorWithTrace(err, err.Error()))
	}
}

func GetRootPath(dir string) string {
	ex, err := os.Executable()
	if err != nil {
		log.Fatal(utils.ErrorWithTrace(err, err.Error()))
	}
	return path.Join(path.Dir(ex), dir)
}
