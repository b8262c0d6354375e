package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"signflow-backend/internal/workflow"
)

var (
	planDocType      string
	planUrgency      string
	planParties      []string
	planOutputFormat string
)

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan the signing order for a set of parties",
		Long: `Score the parties and produce a signing plan: routing topology,
signing order, completion estimate, and reminder schedule.

Each --party takes "name:email:role" with an optional ":phone" suffix.
Roles are signer, approver, witness, or cc.

Examples:
  # Plan a two-party service agreement
  signctl plan -t service_agreement \
    -p "Alice:alice@example.com:signer" \
    -p "Bob:bob@example.com:approver"

  # Urgent workflow with SMS-capable signers
  signctl plan -t nda -u high \
    -p "Carol:carol@example.com:signer:+15550100"`,
		RunE: runPlan,
	}

	cmd.Flags().StringVarP(&planDocType, "type", "t", "unknown", "Document type")
	cmd.Flags().StringVarP(&planUrgency, "urgency", "u", "normal", "Urgency (low, normal, high)")
	cmd.Flags().StringSliceVarP(&planParties, "party", "p", []string{}, "Party as name:email:role[:phone] (repeatable)")
	cmd.Flags().StringVarP(&planOutputFormat, "output", "o", "human", "Output format (human, json)")

	return cmd
}

func runPlan(cmd *cobra.Command, args []string) error {
	if len(planParties) == 0 {
		return fmt.Errorf("at least one --party is required")
	}

	parties := make([]workflow.Party, 0, len(planParties))
	for i, raw := range planParties {
		p, err := parseParty(i, raw)
		if err != nil {
			return err
		}
		parties = append(parties, p)
	}

	switch workflow.Urgency(planUrgency) {
	case workflow.UrgencyLow, workflow.UrgencyNormal, workflow.UrgencyHigh:
	default:
		return fmt.Errorf("urgency must be low, normal, or high")
	}

	optimizer := workflow.NewOptimizer(workflow.OptimizerConfig{})
	plan := optimizer.Optimize(workflow.Request{
		DocumentType: planDocType,
		Urgency:      workflow.Urgency(planUrgency),
		Parties:      parties,
	})

	if planOutputFormat == "json" {
		out, err := json.MarshalIndent(plan, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	printPlan(plan, parties)
	return nil
}

func parseParty(index int, raw string) (workflow.Party, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 3 {
		return workflow.Party{}, fmt.Errorf("party %q: expected name:email:role[:phone]", raw)
	}
	p := workflow.Party{
		ID:       fmt.Sprintf("p%d", index+1),
		Name:     strings.TrimSpace(parts[0]),
		Email:    strings.TrimSpace(parts[1]),
		Role:     strings.ToLower(strings.TrimSpace(parts[2])),
		Required: true,
	}
	if len(parts) > 3 {
		p.Phone = strings.TrimSpace(strings.Join(parts[3:], ":"))
	}
	if p.Name == "" || p.Email == "" || p.Role == "" {
		return workflow.Party{}, fmt.Errorf("party %q: name, email, and role are required", raw)
	}
	return p, nil
}

func printPlan(plan workflow.Plan, parties []workflow.Party) {
	names := make(map[string]string, len(parties))
	for _, p := range parties {
		names[p.ID] = p.Name
	}

	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Println()
	cyan.Println("Signing Plan")
	fmt.Printf("Topology:    %s\n", plan.Type)
	fmt.Printf("Probability: %.0f%% chance of full execution\n", plan.SuccessProbability*100)
	fmt.Printf("Estimate:    %.0fh\n", plan.EstimatedHours)
	fmt.Println()

	color.New(color.Bold).Println("Order")
	for i, id := range plan.Order {
		fmt.Printf("  %d. %s\n", i+1, names[id])
	}
	fmt.Println()

	if len(plan.Reminders) > 0 {
		color.New(color.Bold).Println("Reminders")
		for _, r := range plan.Reminders {
			fmt.Printf("  - %s via %s after %.0fh (%s)\n", names[r.PartyID], r.Channel, r.AfterHours, r.Urgency)
		}
		fmt.Println()
	}

	if len(plan.Reasons) > 0 {
		color.New(color.Bold).Println("Reasoning")
		for _, reason := range plan.Reasons {
			fmt.Printf("  - %s\n", reason)
		}
		fmt.Println()
	}
}
