// Copyright 2021 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lodenet/lode/pkg/admission"
	"github.com/lodenet/lode/pkg/node"
	"github.com/lodenet/lode/pkg/overlay"
)

func (c *command) initStartCmd() (err error) {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a Lode node",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if len(args) > 0 {
				return cmd.Help()
			}

			v := strings.ToLower(c.config.GetString(optionNameVerbosity))
			logger, err := newLogger(cmd, v)
			if err != nil {
				return fmt.Errorf("new logger: %v", err)
			}

			clusterPeers, err := parseClusterPeers(c.config.GetStringSlice(optionNameClusterPeers))
			if err != nil {
				return fmt.Errorf("cluster peers: %w", err)
			}

			n, err := node.New(logger, node.Options{
				DebugAPIAddr:       c.config.GetString(optionNameDebugAPIAddr),
				CORSAllowedOrigins: c.config.GetStringSlice(optionCORSAllowedOrigins),
				BaseFee:            c.config.GetUint64(optionNameBaseFee),
				RefFeeUnits:        c.config.GetUint32(optionNameRefFeeUnits),
				RaiseThreshold:     c.config.GetInt(optionNameRaiseThreshold),
				TickInterval:       c.config.GetDuration(optionNameTickInterval),
				ClusterPeers:       clusterPeers,
			})
			if err != nil {
				return fmt.Errorf("node: %w", err)
			}

			// Wait for termination or interrupt signals.
			// We want to clean up things at the end.
			interruptChannel := make(chan os.Signal, 1)
			signal.Notify(interruptChannel, syscall.SIGINT, syscall.SIGTERM)

			// Block main goroutine until it is interrupted
			sig := <-interruptChannel

			logger.Debugf("received signal: %v", sig)
			logger.Info("shutting down")

			// Shutdown
			done := make(chan struct{})
			go func() {
				defer close(done)
				if err := n.Close(); err != nil {
					logger.Errorf("shutdown: %v", err)
				}
			}()

			// If shutdown function is blocking too long,
			// allow process termination by receiving another signal.
			select {
			case sig := <-interruptChannel:
				logger.Debugf("received signal: %v", sig)
			case <-done:
			}

			return nil
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return c.config.BindPFlags(cmd.Flags())
		},
	}

	c.setAllFlags(cmd)
	c.root.AddCommand(cmd)
	return nil
}

func (c *command) setAllFlags(cmd *cobra.Command) {
	cmd.Flags().String(optionNameDebugAPIAddr, ":1635", "debug HTTP API listen address")
	cmd.Flags().StringSlice(optionCORSAllowedOrigins, []string{}, "origins with CORS headers enabled")
	cmd.Flags().String(optionNameVerbosity, "info", "log verbosity level 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace")
	cmd.Flags().Uint64(optionNameBaseFee, 10, "base fee charged for a reference operation, in fee units")
	cmd.Flags().Uint32(optionNameRefFeeUnits, 10, "fee units that correspond to the base fee")
	cmd.Flags().Int(optionNameRaiseThreshold, admission.DefaultRaiseThreshold, "overload signals per tick that raise the local load level")
	cmd.Flags().Duration(optionNameTickInterval, admission.DefaultTickInterval, "interval between load level adjustments")
	cmd.Flags().StringSlice(optionNameClusterPeers, nil, "overlay addresses of trusted cluster peers")
}

func parseClusterPeers(addrs []string) ([]overlay.Address, error) {
	peers := make([]overlay.Address, 0, len(addrs))
	for _, a := range addrs {
		addr, err := overlay.ParseHexAddress(a)
		if err != nil {
			return nil, fmt.Errorf("parse address %q: %w", a, err)
		}
		peers = append(peers, addr)
	}
	return peers, nil
}
