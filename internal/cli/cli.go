package cli

import (
	"fmt"
	"os"

	boardflow_http "github.com/dmilosevic/boardflow/internal/http"
	"github.com/dmilosevic/boardflow/internal/log"
	internal_storage "github.com/dmilosevic/boardflow/internal/storage"
	"github.com/spf13/cobra"
)

func SetupCLI(rootCmd *cobra.Command) {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the boardflow API server",
		Run: func(cmd *cobra.Command, args []string) {
			connStr, err := cmd.Flags().GetString("db")
			if err != nil {
				log.GetLogger().Errorf("Error retrieving db flag: %v", err)
				os.Exit(1)
			}
			if connStr == "" {
				connStr = ConnStrFromEnv()
			}
			if connStr == "" {
				fmt.Println("Error: --db flag, DATABASE_URL, or complete DB_* env vars required")
				os.Exit(1)
			}
			port, err := cmd.Flags().GetString("port")
			if err != nil {
				log.GetLogger().Errorf("Error retrieving port flag: %v", err)
				os.Exit(1)
			}
			if port == "" {
				port = os.Getenv("PORT")
			}
			if port == "" {
				port = "8080"
			}
			jwtSecret := os.Getenv("JWT_SECRET")
			if jwtSecret == "" {
				log.GetLogger().Warn("JWT_SECRET not set, using insecure default")
				jwtSecret = "boardflow-dev-secret"
			}

			store := initStore(connStr)
			defer store.Close()

			if err := boardflow_http.StartServer(port, store, []byte(jwtSecret)); err != nil {
				log.GetLogger().Errorf("Server failed: %v", err)
				os.Exit(1)
			}
		},
	}
	serveCmd.Flags().String("port", "", "Port to listen on (default $PORT or 8080)")

	rootCmd.AddCommand(serveCmd)
}

// ConnStrFromEnv builds a Postgres connection string from DATABASE_URL or
// the individual DB_* variables. Returns "" when neither is set.
func ConnStrFromEnv() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	dbUsername := os.Getenv("DB_USERNAME")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")
	if dbUsername == "" || dbPassword == "" || dbHost == "" || dbPort == "" || dbName == "" {
		return ""
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUsername, dbPassword, dbHost, dbPort, dbName)
}

func initStore(dbConnStr string) *internal_storage.PostgresStore {
	store, err := internal_storage.InitStore(dbConnStr)
	if err != nil {
		log.GetLogger().Errorf("Failed to initialize store: %v", err)
		os.Exit(1)
	}
	return store
}
