package main

import (
	"context"
	"log"

	fbauth "firebase.google.com/go/v4/auth"

	"github.com/roomify-app/roomify-backend/config"
	"github.com/roomify-app/roomify-backend/internal/auth"
	"github.com/roomify-app/roomify-backend/internal/bootstrap"
	"github.com/roomify-app/roomify-backend/internal/hosting"
	cronjob "github.com/roomify-app/roomify-backend/internal/projects/cron"
	"github.com/roomify-app/roomify-backend/internal/projects/repository"
	"github.com/roomify-app/roomify-backend/internal/projects/service"
	"github.com/roomify-app/roomify-backend/internal/render"
	redisstore "github.com/roomify-app/roomify-backend/internal/storage/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	redisClient, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	store := redisstore.New(redisClient)

	var authClient *fbauth.Client
	var directory auth.Directory
	if cfg.Firebase.CredentialsPath != "" {
		authClient, err = auth.InitializeFirebase(&cfg.Firebase)
		if err != nil {
			log.Fatalf("failed to initialize firebase: %v", err)
		}
		directory = auth.NewFirebaseDirectory(authClient)
	} else {
		log.Println("FIREBASE_CREDENTIALS_PATH not set - using dev fallback auth")
	}

	var objects hosting.ObjectStore
	if cfg.Hosting.Bucket != "" {
		gcs, err := hosting.NewGCSStore(ctx, cfg.Hosting.Bucket, cfg.Hosting.CredentialsPath)
		if err != nil {
			log.Fatalf("failed to initialize hosting store: %v", err)
		}
		defer gcs.Close()
		objects = gcs
	} else {
		log.Println("HOSTING_BUCKET not set - durable image hosting disabled")
	}
	resolver := hosting.NewResolver(store, objects, cfg.Hosting.DomainSuffix, cfg.Hosting.RootDir)

	repo := repository.NewRepository(store, store)
	projectService := service.NewProjectService(repo, resolver, directory)

	var renderClient *render.Client
	if cfg.Render.APIKey != "" {
		renderClient = render.NewClient(cfg.Render.APIKey, cfg.Render.BaseURL, cfg.Render.Model)
	} else {
		log.Println("RENDER_API_KEY not set - render endpoint disabled")
	}

	cronjob.NewReconciler(repo).Start()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "roomify-backend",
		Version:     cfg.App.Version,
		Redis:       redisClient,
		AuthClient:  authClient,
		Projects:    projectService,
		Resolver:    resolver,
		Render:      renderClient,
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
