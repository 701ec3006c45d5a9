package cmd

import (
	"github.com/chocolate-network/ledger/src/serve"
	"github.com/chocolate-network/ledger/src/utils/logger"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ledger engine with its REST API and event sinks",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		controller, err := serve.NewController(conf)
		if err != nil {
			return
		}

		err = controller.Start()
		if err != nil {
			return
		}

		select {
		case <-controller.CtxRunning.Done():
		case <-applicationCtx.Done():
		}

		controller.StopWait()

		return
	},
	PostRunE: func(cmd *cobra.Command, args []string) (err error) {
		log := logger.NewSublogger("root-cmd")
		log.Debug("Finished serve command")
		applicationCtxCancel()
		return
	},
}
