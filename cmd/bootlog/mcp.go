package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bootlog/bootlog/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server",
		Long:  "Start the Model Context Protocol server for bootlog",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := mcp.NewServer("", logrus.StandardLogger())
			return server.Run(context.Background())
		},
	}

	return cmd
}
