package main

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"impact-lending/internal/adapter/oracle"
	"impact-lending/internal/adapter/repository/mysql"
	"impact-lending/internal/config"
	"impact-lending/internal/domain/impact"
	"impact-lending/internal/infrastructure/cache"
	"impact-lending/internal/infrastructure/db"
	"impact-lending/pkg/id"
)

func checkBusiness(business string) error {
	if !id.IsHex32(business) {
		return fmt.Errorf("invalid business identity %q", business)
	}
	return nil
}

// registerBusinessCommand writes the registry entry the verifier reads.
func registerBusinessCommand(conf func() *config.Config) *cobra.Command {
	var (
		goal       int64
		unverified bool
	)
	cmd := &cobra.Command{
		Use:   "register-business <business>",
		Short: "Register or update a business and its impact goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkBusiness(args[0]); err != nil {
				return err
			}
			gdb, err := db.OpenGorm(conf().MySQLDSN())
			if err != nil {
				return err
			}
			info := &impact.BusinessInfo{Business: args[0], ImpactGoal: goal, Verified: !unverified}
			if err := mysql.NewRegistryRepository(gdb).RegisterBusiness(cmd.Context(), info); err != nil {
				return err
			}
			log.WithFields(log.Fields{"business": info.Business, "impactGoal": goal}).Info("Business registered")
			return nil
		},
	}
	cmd.Flags().Int64Var(&goal, "goal", 0, "impact goal the business must reach")
	cmd.Flags().BoolVar(&unverified, "unverified", false, "register without verification")
	_ = cmd.MarkFlagRequired("goal")
	return cmd
}

// recordImpactCommand publishes an oracle reading for a business.
func recordImpactCommand(conf func() *config.Config) *cobra.Command {
	var (
		metric int64
		at     int64
	)
	cmd := &cobra.Command{
		Use:   "record-impact <business>",
		Short: "Record the latest impact metric for a business",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkBusiness(args[0]); err != nil {
				return err
			}
			cfg := conf()
			rdb, err := cache.OpenRedis(cmd.Context(), cfg.RedisAddr, cfg.RedisDB)
			if err != nil {
				return err
			}
			defer rdb.Close()

			if at == 0 {
				at = time.Now().Unix()
			}
			reading := impact.Reading{Metric: metric, Timestamp: at}
			if err := oracle.NewRedisOracle(rdb).Record(cmd.Context(), args[0], reading); err != nil {
				return err
			}
			log.WithFields(log.Fields{"business": args[0], "metric": metric}).Info("Impact recorded")
			return nil
		},
	}
	cmd.Flags().Int64Var(&metric, "metric", 0, "measured impact value")
	cmd.Flags().Int64Var(&at, "at", 0, "reading time in unix seconds (default now)")
	_ = cmd.MarkFlagRequired("metric")
	return cmd
}
