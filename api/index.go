package handler

import (
	"net/http"

	"asset-register/bootstrap"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

var serve http.HandlerFunc

func init() {
	app, err := bootstrap.New()
	if err != nil {
		panic("app create: " + err.Error())
	}
	serve = adaptor.FiberApp(app)
}

// Handler is the serverless entry point. All requests are rewritten here.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()
	serve(w, r)
}
