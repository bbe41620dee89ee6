package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

func main() {
	log.SetPrefix("rf/routine-forge-api: ")
	log.SetFlags(0)

	pool := getDBPool()
	defer pool.Close()

	h := newHandler(pool)

	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	// gin.Engine is an http.Handler, so the CORS layer wraps the whole router.
	corsLayer := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowedHeaders: []string{"*"},
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	fmt.Printf("Starting routine-forge api on :%s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsLayer.Handler(router)))
}
