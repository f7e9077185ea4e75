// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"storefront/checkout"
	"storefront/controllers"
	"storefront/payments"
	"storefront/routes"
	"storefront/store"
	"storefront/utils"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))

	// Initialize EmailService
	emailService := utils.NewEmailService()

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err = client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()

	// Initialize stores
	carts := store.NewCartStore(client)
	catalog := store.NewCatalog(client)
	ledger := store.NewOrderLedger(client)
	txRunner := store.NewTxRunner(client)

	// Payment gateway
	gateway := payments.NewHTTPGateway(os.Getenv("PAYMENT_GATEWAY_URL"), os.Getenv("PAYMENT_GATEWAY_KEY"))

	currency := os.Getenv("STORE_CURRENCY")
	if currency == "" {
		currency = "usd"
	}
	orchestrator := checkout.New(carts, catalog, ledger, gateway, txRunner, currency)

	// Initialize controllers
	userController := controllers.NewUserController(client, emailService)
	productController := controllers.NewProductController(catalog)
	cartController := controllers.NewCartController(carts, catalog)
	checkoutController := controllers.NewCheckoutController(orchestrator, client, emailService)
	orderController := controllers.NewOrderController(ledger, client)

	// Set up the router
	router := mux.NewRouter()
	// Register routes
	routes.RegisterRoutes(router, userController, productController, cartController, checkoutController, orderController)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	fmt.Printf("Server is running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
