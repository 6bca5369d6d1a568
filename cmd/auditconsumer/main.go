package main

import (
	"github.com/corray333/cloud-kitchen/internal/auditapp"
	"github.com/corray333/cloud-kitchen/internal/config"
)

func main() {
	config.MustInit()
	auditapp.MustNewApp().Run()
}
