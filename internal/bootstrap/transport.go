package bootstrap

import (
	"log/slog"
	"time"

	"dealfinder/internal/client"
	"dealfinder/internal/config"
)

// BuildTransport assembles the outbound client from the http profile section.
func BuildTransport(profile *config.Config, log *slog.Logger) (client.Transport, error) {
	log.Info("profile",
		"env", profile.Env,
		"api_base_url", profile.API.BaseURL,
		"retries", profile.HTTP.Retries,
		"concurrency", profile.HTTP.Concurrency,
	)

	return client.Build(client.Options{
		Timeout: time.Duration(profile.HTTP.TimeoutSeconds) * time.Second,
		Retries: profile.HTTP.Retries,
		Workers: profile.HTTP.Concurrency,
		Logger:  log,
	})
}
