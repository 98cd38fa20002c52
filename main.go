package main

import (
	"flag"

	"github.com/golang/glog"
	"github.com/spf13/viper"

	"github.com/dealqa/dealqa-server/config"
	"github.com/dealqa/dealqa-server/router"
	"github.com/dealqa/dealqa-server/server"
)

// Rev holds the binary revision string.
// Set at build time using:
//    go build -ldflags "-X main.Rev=`git rev-parse --short HEAD`"
var Rev string

func main() {
	flag.Parse() // required for glog flags and testing package flags

	cfg, err := loadConfig()
	if err != nil {
		glog.Exitf("Configuration could not be loaded or did not pass validation: %v", err)
	}

	if err := serve(Rev, cfg); err != nil {
		glog.Exitf("dealqa-server failed: %v", err)
	}
}

const configFileName = "dealqa"

func loadConfig() (*config.Configuration, error) {
	v := viper.New()
	config.SetupViper(v, configFileName)
	return config.New(v)
}

func serve(revision string, cfg *config.Configuration) error {
	r, err := router.New(cfg, revision)
	if err != nil {
		return err
	}

	corsRouter := router.SupportCORS(r)
	server.Listen(cfg, router.NoCache{Handler: corsRouter}, server.Admin(revision, r.MetricsEngine))
	return nil
}
