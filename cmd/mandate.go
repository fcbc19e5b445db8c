package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-billing/app/gateway"
	"github.com/vibast-solutions/ms-go-billing/app/service"
)

var mandateCmd = &cobra.Command{
	Use:   "mandate",
	Short: "Run mandate-related gateway commands",
}

var mandateStatusCmd = &cobra.Command{
	Use:   "status <subscription-id>",
	Short: "Query the gateway for a subscription's mandate status",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		runGatewayCommand("mandate_status", func(s *service.SubscriptionService, ctx context.Context) (gateway.Result, error) {
			return s.CheckMandateStatus(ctx, args[0])
		})
	},
}

var mandateModifyCmd = &cobra.Command{
	Use:   "modify <subscription-id> <details>",
	Short: "Send a mandate amendment for a subscription",
	Args:  cobra.ExactArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		runGatewayCommand("mandate_modify", func(s *service.SubscriptionService, ctx context.Context) (gateway.Result, error) {
			return s.ModifyMandate(ctx, args[0], args[1])
		})
	},
}

var refundCmd = &cobra.Command{
	Use:   "refund <subscription-id> <refund-id> <amount>",
	Short: "Refund against a subscription's last captured payment",
	Args:  cobra.ExactArgs(3),
	Run: func(_ *cobra.Command, args []string) {
		runGatewayCommand("refund", func(s *service.SubscriptionService, ctx context.Context) (gateway.Result, error) {
			return s.RefundCharge(ctx, args[0], args[1], args[2])
		})
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify <subscription-id>",
	Short: "Fetch the gateway's authoritative state for a subscription's transaction",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		runGatewayCommand("verify_payment", func(s *service.SubscriptionService, ctx context.Context) (gateway.Result, error) {
			return s.VerifyPayment(ctx, args[0])
		})
	},
}

var vpaCmd = &cobra.Command{
	Use:   "vpa <address>",
	Short: "Validate a virtual payment address with the gateway",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		runGatewayCommand("validate_vpa", func(s *service.SubscriptionService, ctx context.Context) (gateway.Result, error) {
			return s.ValidateVPA(ctx, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(mandateCmd)
	rootCmd.AddCommand(refundCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(vpaCmd)
	mandateCmd.AddCommand(mandateStatusCmd)
	mandateCmd.AddCommand(mandateModifyCmd)
}

func runGatewayCommand(name string, fn func(s *service.SubscriptionService, ctx context.Context) (gateway.Result, error)) {
	_, subscriptionService, cleanup := mustCreateBillingService()
	defer cleanup()

	start := time.Now()
	result, err := fn(subscriptionService, context.Background())
	latency := time.Since(start)
	if err != nil {
		logrus.WithError(err).WithField("command", name).WithField("latency", latency.String()).Error("command_failed")
		return
	}
	logrus.WithField("command", name).WithField("latency", latency.String()).Info("command_completed")

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logrus.WithError(err).Error("Failed to encode gateway result")
		return
	}
	fmt.Println(string(encoded))
}
