package main

import (
	"urbandict/config"
	"urbandict/database"
	"urbandict/handlers"
	"urbandict/server"
	"urbandict/services/auth"
	"urbandict/services/logging"
	"urbandict/services/mail"
	"urbandict/services/posts"
	"urbandict/services/reactions"
	"urbandict/services/templates"
	"urbandict/session"

	"go.uber.org/fx"
)

func main() {
	fx.New(
		config.Module,
		logging.Module,
		database.Module,
		mail.Module,
		session.Module,
		auth.Module,
		posts.Module,
		reactions.Module,
		templates.Module,
		server.Module,
		handlers.Module,
		fx.Invoke(handlers.RegisterRoutes),
		fx.Invoke(server.RunServer),
	).Run()
}
