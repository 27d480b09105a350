package observability

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OracleMetrics bundles collectors for the Identity Oracle contract.
type OracleMetrics struct {
	verificationsStored *prometheus.CounterVec
	verificationErrors  *prometheus.CounterVec
	verifiedCount       prometheus.Gauge
}

var (
	oracleMetricsOnce sync.Once
	oracleRegistry    *OracleMetrics

	governanceMetricsOnce sync.Once
	governanceRegistry    *GovernanceMetrics

	bridgeMetricsOnce sync.Once
	bridgeRegistry    *BridgeMetrics

	hopMetricsOnce sync.Once
	hopRegistry    *HopMetrics
)

// Oracle returns the lazily-initialised Oracle metrics registry.
func Oracle() *OracleMetrics {
	oracleMetricsOnce.Do(func() {
		oracleRegistry = &OracleMetrics{
			verificationsStored: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "citizengov",
				Subsystem: "oracle",
				Name:      "verifications_stored_total",
				Help:      "Count of store_verification calls segmented by attestation id and outcome.",
			}, []string{"attestation_id", "outcome"}),
			verificationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "citizengov",
				Subsystem: "oracle",
				Name:      "verification_errors_total",
				Help:      "Count of store_verification rejections segmented by reason.",
			}, []string{"reason"}),
			verifiedCount: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "citizengov",
				Subsystem: "oracle",
				Name:      "verified_accounts",
				Help:      "Total number of NEAR accounts currently verified.",
			}),
		}
		prometheus.MustRegister(
			oracleRegistry.verificationsStored,
			oracleRegistry.verificationErrors,
			oracleRegistry.verifiedCount,
		)
	})
	return oracleRegistry
}

// RecordVerification records the outcome of a store_verification call.
// attestationID is the raw "1"/"2"/"3" attestation id string.
func (m *OracleMetrics) RecordVerification(attestationID string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
		m.verificationErrors.WithLabelValues(errorReason(err)).Inc()
	}
	m.verificationsStored.WithLabelValues(attestationLabel(attestationID), outcome).Inc()
}

// SetVerifiedCount updates the verified-accounts gauge.
func (m *OracleMetrics) SetVerifiedCount(n uint64) {
	if m == nil {
		return
	}
	m.verifiedCount.Set(float64(n))
}

// GovernanceMetrics bundles collectors for the Governance Ledger contract.
type GovernanceMetrics struct {
	proposalsCreated *prometheus.CounterVec
	votesCast        *prometheus.CounterVec
	finalized        *prometheus.CounterVec
}

// Governance returns the lazily-initialised Governance Ledger metrics registry.
func Governance() *GovernanceMetrics {
	governanceMetricsOnce.Do(func() {
		governanceRegistry = &GovernanceMetrics{
			proposalsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "citizengov",
				Subsystem: "governance",
				Name:      "proposals_created_total",
				Help:      "Count of create_proposal calls segmented by outcome.",
			}, []string{"outcome"}),
			votesCast: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "citizengov",
				Subsystem: "governance",
				Name:      "votes_cast_total",
				Help:      "Count of vote calls segmented by choice and outcome.",
			}, []string{"choice", "outcome"}),
			finalized: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "citizengov",
				Subsystem: "governance",
				Name:      "proposals_finalized_total",
				Help:      "Count of finalize_proposal calls segmented by resulting status.",
			}, []string{"status"}),
		}
		prometheus.MustRegister(
			governanceRegistry.proposalsCreated,
			governanceRegistry.votesCast,
			governanceRegistry.finalized,
		)
	})
	return governanceRegistry
}

// RecordProposalCreated records the outcome of a create_proposal call.
func (m *GovernanceMetrics) RecordProposalCreated(err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.proposalsCreated.WithLabelValues(outcome).Inc()
}

// RecordVote records the outcome of a vote call.
func (m *GovernanceMetrics) RecordVote(choice string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.votesCast.WithLabelValues(strings.ToLower(choice), outcome).Inc()
}

// RecordFinalized records a proposal's terminal status.
func (m *GovernanceMetrics) RecordFinalized(status string) {
	if m == nil {
		return
	}
	m.finalized.WithLabelValues(strings.ToLower(status)).Inc()
}

// BridgeMetrics bundles collectors for the DAO-Role Bridge contract.
type BridgeMetrics struct {
	addMember      *prometheus.CounterVec
	quorumGauge    prometheus.Gauge
	bridgeProposal *prometheus.CounterVec
}

// Bridge returns the lazily-initialised Bridge metrics registry.
func Bridge() *BridgeMetrics {
	bridgeMetricsOnce.Do(func() {
		bridgeRegistry = &BridgeMetrics{
			addMember: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "citizengov",
				Subsystem: "bridge",
				Name:      "add_member_total",
				Help:      "Count of add_member pipeline runs segmented by outcome.",
			}, []string{"outcome"}),
			quorumGauge: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "citizengov",
				Subsystem: "bridge",
				Name:      "citizen_role_quorum",
				Help:      "Most recently computed quorum for the citizen role's default vote policy.",
			}),
			bridgeProposal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "citizengov",
				Subsystem: "bridge",
				Name:      "proposals_created_total",
				Help:      "Count of Bridge-originated DAO proposals segmented by outcome.",
			}, []string{"outcome"}),
		}
		prometheus.MustRegister(
			bridgeRegistry.addMember,
			bridgeRegistry.quorumGauge,
			bridgeRegistry.bridgeProposal,
		)
	})
	return bridgeRegistry
}

// RecordAddMember records the outcome of an add_member pipeline run.
func (m *BridgeMetrics) RecordAddMember(err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = errorReason(err)
	}
	m.addMember.WithLabelValues(outcome).Inc()
}

// SetQuorum updates the citizen-role quorum gauge.
func (m *BridgeMetrics) SetQuorum(quorum uint64) {
	if m == nil {
		return
	}
	m.quorumGauge.Set(float64(quorum))
}

// RecordProposalCreated records the outcome of a Bridge create_proposal call.
func (m *BridgeMetrics) RecordProposalCreated(err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.bridgeProposal.WithLabelValues(outcome).Inc()
}

// HopMetrics holds per-contract promise-chain hop latency and failure
// collectors. chainsim.Runner does not record into them; only direct
// ObserveHop calls do.
type HopMetrics struct {
	hopLatency *prometheus.HistogramVec
	hopFailed  *prometheus.CounterVec
}

// Hops returns the lazily-initialised hop-latency metrics registry.
func Hops() *HopMetrics {
	hopMetricsOnce.Do(func() {
		hopRegistry = &HopMetrics{
			hopLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "citizengov",
				Subsystem: "chainsim",
				Name:      "hop_duration_seconds",
				Help:      "Latency distribution for a single scheduled cross-contract hop.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"contract"}),
			hopFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "citizengov",
				Subsystem: "chainsim",
				Name:      "hop_failures_total",
				Help:      "Count of promise chain hops that returned a failed PromiseResult.",
			}, []string{"contract"}),
		}
		prometheus.MustRegister(hopRegistry.hopLatency, hopRegistry.hopFailed)
	})
	return hopRegistry
}

// ObserveHop records a single hop's execution latency and whether it failed.
func (m *HopMetrics) ObserveHop(contract string, d time.Duration, failed bool) {
	if m == nil {
		return
	}
	m.hopLatency.WithLabelValues(contract).Observe(d.Seconds())
	if failed {
		m.hopFailed.WithLabelValues(contract).Inc()
	}
}

func attestationLabel(id string) string {
	switch id {
	case "1":
		return "passport"
	case "2":
		return "id_card"
	case "3":
		return "biometric"
	default:
		return "unknown"
	}
}

func errorReason(err error) string {
	if err == nil {
		return "none"
	}
	reason := strings.TrimSpace(err.Error())
	if reason == "" {
		return "unknown"
	}
	return reason
}
