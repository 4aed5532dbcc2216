package diag

import "fmt"

// RuleEntry is the operator reference for one subsystem. The condition
// lists are documentation; the executable thresholds live in the
// evaluator and are rendered into this text from the same constants and
// Thresholds.
type RuleEntry struct {
	ID                 SubsystemID `json:"id"`
	Title              string      `json:"title"`
	Intent             string      `json:"intent"`
	Green              []string    `json:"green"`
	Yellow             []string    `json:"yellow"`
	Red                []string    `json:"red"`
	RecommendedActions []string    `json:"recommended_actions"`
}

func (r RuleEntry) clone() RuleEntry {
	r.Green = append([]string(nil), r.Green...)
	r.Yellow = append([]string(nil), r.Yellow...)
	r.Red = append([]string(nil), r.Red...)
	r.RecommendedActions = append([]string(nil), r.RecommendedActions...)
	return r
}

// rulebook holds the entries for DefaultThresholds. It is built once at
// init and never written again.
var rulebook = buildRulebook(DefaultThresholds())

// Lookup returns the rule entry for id under the default thresholds, or
// ErrRuleNotFound when id is outside the fixed subsystem set.
func Lookup(id SubsystemID) (RuleEntry, error) {
	r, ok := rulebook[id]
	if !ok {
		return RuleEntry{}, fmt.Errorf("%w: %q", ErrRuleNotFound, string(id))
	}
	return r.clone(), nil
}

// Rules returns every rule entry under the default thresholds in subsystem
// declaration order.
func Rules() []RuleEntry {
	return orderedRules(rulebook)
}

// LookupFor is Lookup with the pressure and cloud entries rendered from th.
func LookupFor(id SubsystemID, th Thresholds) (RuleEntry, error) {
	if !id.Valid() {
		return RuleEntry{}, fmt.Errorf("%w: %q", ErrRuleNotFound, string(id))
	}
	return buildRulebook(th)[id], nil
}

// RulesFor is Rules with the pressure and cloud entries rendered from th.
func RulesFor(th Thresholds) []RuleEntry {
	return orderedRules(buildRulebook(th))
}

// Rules returns the rulebook as this evaluator applies it.
func (e *Evaluator) Rules() []RuleEntry {
	return RulesFor(e.th)
}

func orderedRules(book map[SubsystemID]RuleEntry) []RuleEntry {
	out := make([]RuleEntry, 0, len(subsystems))
	for _, id := range subsystems {
		out = append(out, book[id].clone())
	}
	return out
}

func buildRulebook(th Thresholds) map[SubsystemID]RuleEntry {
	entries := []RuleEntry{
		{
			ID:     Ethernet,
			Intent: "The wired uplink must carry traffic to the internet without link-layer errors.",
			Green: []string{
				"Link detected and internet online",
				"RX and TX error counters are zero",
			},
			Yellow: []string{
				"Link and internet up but RX or TX errors present",
				"RX drops, half duplex, or negotiated speed below " + fmt.Sprintf("%d Mb/s", EthernetMinSpeedMbps),
				"Error counters not reported",
			},
			Red: []string{
				"No link detected on the wired port",
				"Internet not online over the wired port",
			},
			RecommendedActions: []string{
				"Reseat or replace the Ethernet cable",
				"Check the switch port for speed and duplex mismatch",
				"Confirm DHCP assigned an IPv4 address",
			},
		},
		{
			ID:     WiFi,
			Intent: "Wireless is optional, but once configured it must reach the internet.",
			Green: []string{
				"Provisioned via secure pairing and internet online",
				"Radio on, associated, and internet online",
			},
			Yellow: []string{
				"Radio off and not provisioned (wireless disabled)",
				"Provisioned or associated but internet not online",
				"Radio state not reported",
			},
			Red: []string{
				"Radio on but not associated with a network",
			},
			RecommendedActions: []string{
				"Re-run Wi-Fi setup and select the site network",
				"Move the access point closer or add an extender",
				"Prefer a 5 GHz channel when signal allows",
			},
		},
		{
			ID:     Cellular,
			Intent: "The cellular modem is the primary fallback and must hold a clean data session.",
			Green: []string{
				"Internet online",
				fmt.Sprintf("Packet loss at or below %.0f%%", CellularMaxPacketLoss),
				fmt.Sprintf("Signal strength at or above %d%%", CellularMinSignalPercent),
			},
			Yellow: []string{
				fmt.Sprintf("Internet online but signal strength below %d%%", CellularMinSignalPercent),
				fmt.Sprintf("Internet online but packet loss above %.0f%%", CellularMaxPacketLoss),
			},
			Red: []string{
				"Internet not online over cellular",
			},
			RecommendedActions: []string{
				"Check the SIM is seated and activated",
				"Reposition or upgrade the cellular antenna",
				"Confirm the carrier has coverage at the site",
			},
		},
		{
			ID:     Satellite,
			Intent: "Satellite backhaul is advisory and never blocks commissioning.",
			Green: []string{
				"Enabled and modem state ready",
			},
			Yellow: []string{
				"Enabled but modem offline or not configured",
				"Satellite not enabled",
			},
			RecommendedActions: []string{
				"Confirm the modem has a clear view of the sky",
				"Complete satellite activation with the provider",
				"If no modem is detected, check the modem cable and power",
			},
		},
		{
			ID:     Power,
			Intent: "Supply voltage must stay inside the controller's operating window.",
			Green: []string{
				fmt.Sprintf("Voltage between %.1f V and %.1f V inclusive", PowerNominalMinVolts, PowerNominalMaxVolts),
			},
			Yellow: []string{
				fmt.Sprintf("Voltage from %.1f V up to %.1f V", PowerMarginalMinVolts, PowerNominalMinVolts),
				fmt.Sprintf("Voltage above %.1f V up to %.1f V", PowerNominalMaxVolts, PowerMarginalMaxVolts),
			},
			Red: []string{
				fmt.Sprintf("Voltage below %.1f V or above %.1f V", PowerMarginalMinVolts, PowerMarginalMaxVolts),
				"Voltage not reported",
			},
			RecommendedActions: []string{
				"Measure the supply at the controller terminals",
				"Check the battery charge and charger output",
				"Replace undersized or corroded supply wiring",
			},
		},
		pressureRule(ManifoldPressure, "Manifold pressure must sit inside the deployment's expected range so every zone reaches design flow.",
			th.Manifold),
		pressureRule(SourcePressure, "Source pressure must sit inside the deployment's expected range so the pump is never starved.",
			th.Source),
		{
			ID:     Cloud,
			Intent: "The controller must report to the cloud service with responsive round trips.",
			Green: []string{
				fmt.Sprintf("Cloud reachable and ping at or below %.0f ms", th.CloudPingMillis),
			},
			Yellow: []string{
				fmt.Sprintf("Cloud reachable but ping above %.0f ms", th.CloudPingMillis),
				"Cloud reachable but ping not reported",
			},
			Red: []string{
				"Cloud not reachable",
				"Reachability not reported",
			},
			RecommendedActions: []string{
				"Verify at least one uplink has internet",
				"Allow outbound HTTPS and MQTT through the site firewall",
				"Retry after the uplink stabilises",
			},
		},
		{
			ID:     Firmware,
			Intent: "The controller must run a supported firmware release.",
			Green: []string{
				"Version supported and no update available",
			},
			Yellow: []string{
				"Version supported but an update is available",
			},
			Red: []string{
				"Version no longer supported",
			},
			RecommendedActions: []string{
				"Install the latest firmware before handover",
				"Keep the controller powered during the update",
			},
		},
	}

	book := make(map[SubsystemID]RuleEntry, len(entries))
	for _, e := range entries {
		e.Title = e.ID.Title()
		book[e.ID] = e
	}
	return book
}

func pressureRule(id SubsystemID, intent string, band PressureBand) RuleEntry {
	return RuleEntry{
		ID:     id,
		Intent: intent,
		Green: []string{
			fmt.Sprintf("Reading within the expected range inclusive (%.0f-%.0f PSI unless the snapshot sets its own)", band.ExpectedLow, band.ExpectedHigh),
		},
		Yellow: []string{
			fmt.Sprintf("Reading in the marginal band from %.0f PSI up to the expected low", band.MarginalFloor),
		},
		Red: []string{
			fmt.Sprintf("Reading below %.0f PSI", band.MarginalFloor),
			"Reading above the expected range",
			"Reading not reported",
		},
		RecommendedActions: []string{
			"Check isolation valves are fully open",
			"Inspect filters and strainers for blockage",
			"Confirm the expected range configured for this site",
		},
	}
}
