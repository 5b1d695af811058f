package main

import (
	"os"

	"github.com/talx-hub/loyalty-ledger/internal/service"
)

func main() {
	if err := service.RunServer(); err != nil {
		os.Exit(1)
	}
}
