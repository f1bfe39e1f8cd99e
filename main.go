package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/edugamify/classroom-api/cmd/app"
)

//go:generate swag init -g main.go

// @title       EduGamify classroom API
// @version     1.0
// @BasePath    /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
