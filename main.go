package main

import (
	"log"

	"github.com/joho/godotenv"

	"Exchange/CronJobs"
	"Exchange/Engine"
	"Exchange/FiberConfig"
	"Exchange/Models"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	Models.Connect()
	engine := Engine.New(Models.DB)

	sweeper := CronJobs.NewPostingSweeper(engine, true)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("Failed to start posting sweeper: %v", err)
	}
	defer sweeper.Stop()

	FiberConfig.FiberConfig(engine)
}
