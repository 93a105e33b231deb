package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           Broker Ledger Reconciliation API
// @version         0.1.0
// @description     Daily, weekly, and monthly profit reconciliation over a brokerage operation ledger.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
