package main

import (
	"github.com/corray333/backend-labs/meatshop/internal/app"
	"github.com/corray333/backend-labs/meatshop/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
