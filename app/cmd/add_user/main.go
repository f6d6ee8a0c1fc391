package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"career-compass/app/config"
	"career-compass/app/models"
	"career-compass/app/routes/auth"
	"career-compass/app/storage/postgres"
)

// Creates a verified user directly, bypassing the email verification flow.
// Useful for seeding the first account.
func main() {
	username := flag.String("username", "", "login username")
	password := flag.String("password", "", "login password")
	email := flag.String("email", "", "user email address")
	role := flag.String("role", "admin", "user role")
	flag.Parse()

	if *username == "" || *password == "" || *email == "" {
		fmt.Println("Usage: add_user -username <name> -password <pass> -email <addr> [-role <role>]")
		os.Exit(1)
	}

	config.Load()
	config.InitDB()
	defer config.GetDB().Close()

	if err := postgres.RunMigrations(config.GetDB()); err != nil {
		fmt.Printf("Error running migrations: %v\n", err)
		os.Exit(1)
	}

	hashed, err := auth.HashPassword(*password)
	if err != nil {
		fmt.Printf("Error hashing password: %v\n", err)
		os.Exit(1)
	}

	store := postgres.NewStore(config.GetDB())
	user := &models.User{
		Username: *username,
		Password: hashed,
		Email:    *email,
		Role:     *role,
		Verified: true,
	}
	if err := store.CreateUser(context.Background(), user); err != nil {
		fmt.Printf("Error creating user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("User created successfully: %s (%s)\n", user.Username, user.Email)
}
