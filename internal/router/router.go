package routes

import (
	"net/http"

	_ "github.com/oggyb/skebby-gateway/internal/docs" // swagger docs
	"github.com/oggyb/skebby-gateway/internal/response"
	swaggerHandler "github.com/swaggo/http-swagger"
)

type AppDeps struct {
	Home    HomeHandler
	Message MessageHandler
	Account AccountHandler
}

type HomeHandler interface {
	Index(w http.ResponseWriter, r *http.Request)
	Health(w http.ResponseWriter, r *http.Request)
}

type MessageHandler interface {
	Enqueue(w http.ResponseWriter, r *http.Request)
	GetSentMessages(w http.ResponseWriter, r *http.Request)
	GetSentByOrderID(w http.ResponseWriter, r *http.Request)
	StartStopScheduler(w http.ResponseWriter, r *http.Request)
}

type AccountHandler interface {
	Account(w http.ResponseWriter, r *http.Request)
	Credits(w http.ResponseWriter, r *http.Request)
	CreditsByQuality(w http.ResponseWriter, r *http.Request)
	ResetSession(w http.ResponseWriter, r *http.Request)
}

func Register(mux *http.ServeMux, d AppDeps) {
	mux.HandleFunc("GET /{$}", d.Home.Index)
	mux.HandleFunc("GET /health", d.Home.Health)

	mux.HandleFunc("POST /messages", d.Message.Enqueue)
	mux.HandleFunc("GET /messages/sent", d.Message.GetSentMessages)
	mux.HandleFunc("GET /messages/sent/{order_id}", d.Message.GetSentByOrderID)
	mux.HandleFunc("POST /scheduler", d.Message.StartStopScheduler)

	mux.HandleFunc("GET /account", d.Account.Account)
	mux.HandleFunc("GET /credits", d.Account.Credits)
	mux.HandleFunc("GET /credits/{quality}", d.Account.CreditsByQuality)
	mux.HandleFunc("POST /auth/reset", d.Account.ResetSession)

	//Swagger
	mux.HandleFunc("GET /swagger/", swaggerHandler.WrapHandler)

	// Fallback handler for undefined routes (404)
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.RespondError(w, http.StatusNotFound, "route not found")
	}))
}
