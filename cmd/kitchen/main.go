package main

import (
	"github.com/corray333/cloud-kitchen/internal/app"
	"github.com/corray333/cloud-kitchen/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
