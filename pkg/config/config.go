package config

import "os"

type Config struct {
	Port           string
	RealtimePort   string
	Env            string
	MongoURI       string
	MongoDatabase  string
	JWTSecret      string
	CloudinaryURL  string
	GoogleClientID string
	GoogleSecret   string
	GoogleRedirect string
	GithubClientID string
	GithubSecret   string
	GithubRedirect string
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		RealtimePort:   getEnv("REALTIME_PORT", "8081"),
		Env:            getEnv("ENV", "development"),
		MongoURI:       getEnv("MONGO_URI", ""),
		MongoDatabase:  getEnv("MONGO_DATABASE", "skilly"),
		JWTSecret:      getEnv("JWT_SECRET", "supersecretjwtkey"),
		CloudinaryURL:  getEnv("CLOUDINARY_URL", ""),
		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirect: getEnv("GOOGLE_REDIRECT_URI", "postmessage"),
		GithubClientID: getEnv("GITHUB_CLIENT_ID", ""),
		GithubSecret:   getEnv("GITHUB_CLIENT_SECRET", ""),
		GithubRedirect: getEnv("GITHUB_REDIRECT_URI", "http://localhost:3000/oauth/callback/github"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
