package main

import (
	"context"

	"github.com/pscheid92/forumclient/internal/cli"
)

func main() {
	cli.Execute(context.Background())
}
