package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/golang/glog"

	"github.com/dealqa/dealqa-server/config"
)

// Listen blocks forever, serving validation requests on the configured ports,
// until the process is shut down.
func Listen(cfg *config.Configuration, handler http.Handler, adminHandler http.Handler) {
	stopSignals := make(chan os.Signal, 1)
	signal.Notify(stopSignals, syscall.SIGTERM, syscall.SIGINT)

	// Run the servers. Fan any process-stopper signals out to each server for graceful shutdowns.
	stopMain := make(chan os.Signal)
	stopAdmin := make(chan os.Signal)
	done := make(chan struct{})

	mainServer := newMainServer(cfg, handler)
	go shutdownAfterSignals(mainServer, stopMain, done)

	adminServer := newAdminServer(cfg, adminHandler)
	go shutdownAfterSignals(adminServer, stopAdmin, done)

	mainListener, err := newListener(mainServer.Addr)
	if err != nil {
		glog.Errorf("Error listening for TCP connections on %s: %v for main server", mainServer.Addr, err)
		return
	}
	adminListener, err := newListener(adminServer.Addr)
	if err != nil {
		glog.Errorf("Error listening for TCP connections on %s: %v for admin server", adminServer.Addr, err)
		return
	}
	go runServer(mainServer, "Main", mainListener)
	go runServer(adminServer, "Admin", adminListener)

	wait(stopSignals, done, stopMain, stopAdmin)
}

func newMainServer(cfg *config.Configuration, handler http.Handler) *http.Server {
	serverHandler := handler
	if cfg.EnableGzip {
		serverHandler = gziphandler.GzipHandler(handler)
	}

	return &http.Server{
		Addr:         cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Handler:      serverHandler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
	}
}

func newAdminServer(cfg *config.Configuration, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:    cfg.Host + ":" + strconv.Itoa(cfg.AdminPort),
		Handler: handler,
	}
}

func runServer(server *http.Server, name string, listener net.Listener) {
	glog.Infof("%s server starting on: %s", name, server.Addr)
	err := server.Serve(listener)
	glog.Errorf("%s server quit with error: %v", name, err)
}

func newListener(address string) (net.Listener, error) {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("error listening for TCP connections on %s: %v", address, err)
	}
	return ln, nil
}

func wait(inbound <-chan os.Signal, done <-chan struct{}, outbound ...chan<- os.Signal) {
	sig := <-inbound

	for i := 0; i < len(outbound); i++ {
		go sendSignal(outbound[i], sig)
	}

	for i := 0; i < len(outbound); i++ {
		<-done
	}
}

func sendSignal(to chan<- os.Signal, sig os.Signal) {
	to <- sig
}

func shutdownAfterSignals(server *http.Server, stopper <-chan os.Signal, done chan<- struct{}) {
	sig := <-stopper

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	glog.Infof("Stopping %s because of signal: %s", server.Addr, sig.String())
	if err := server.Shutdown(ctx); err != nil {
		glog.Errorf("Failed to shutdown %s: %v", server.Addr, err)
	}
	done <- struct{}{}
}
