package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joeshaw/envdecode"
	"github.com/sirupsen/logrus"

	"github.com/relabs-tech/collectify/core/backend"
	"github.com/relabs-tech/collectify/core/cdoc"
	"github.com/relabs-tech/collectify/core/logger"
)

var configurationJSON string = `
{
	"collections": [
	  {
		"resource": "movie",
		"description": "a movie in the watch list"
	  },
	  {
		"resource": "game",
		"description": "a game in the play list"
	  },
	  {
		"resource": "book",
		"description": "a book in the reading list"
	  }
	],
	"uploads": {
	  "resource": "uploads",
	  "description": "cover images, returned inline as base64 data urls"
	}
}
`

// Service holds the configuration for this service
//
// use MONGODB_URI="mongodb://localhost:27017"
type Service struct {
	MongoDBURI string `env:"MONGODB_URI,required" description:"the connection string for the MongoDB server"`
	Database   string `env:"MONGODB_DATABASE,default=collectify" description:"the database holding the collections"`
	ListenAddr string `env:"LISTEN_ADDR,default=:3000" description:"address the http server listens on"`
	LogLevel   string `env:"LOG_LEVEL,default=info" description:"log level: debug, info, warning or error"`
}

func main() {
	service := &Service{}
	if err := envdecode.Decode(service); err != nil {
		panic(err)
	}
	level, err := logrus.ParseLevel(service.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.InitLogger(level)
	log := logger.Default()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := cdoc.OpenMongo(ctx, service.MongoDBURI, service.Database)
	if err != nil {
		log.Fatalln("cannot connect to mongodb:", err)
	}
	defer store.Close(context.Background())

	router := mux.NewRouter()
	backend.MustNew(&backend.Builder{
		Config: configurationJSON,
		Store:  store,
		Router: router,
	})

	server := &http.Server{
		Addr:    service.ListenAddr,
		Handler: router,
	}

	go func() {
		log.Infoln("listen on", service.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalln("http server:", err)
		}
	}()

	<-ctx.Done()
	log.Infoln("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorln("shutdown:", err)
	}
}
