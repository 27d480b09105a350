package observability

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestOracleRecordVerificationCountsOutcomes(t *testing.T) {
	m := Oracle()
	before := testutil.ToFloat64(m.verificationsStored.WithLabelValues("passport", "success"))

	m.RecordVerification("1", nil)
	require.Equal(t, before+1, testutil.ToFloat64(m.verificationsStored.WithLabelValues("passport", "success")))

	m.RecordVerification("1", errors.New("Nullifier already used"))
	require.Equal(t, float64(1), testutil.ToFloat64(m.verificationsStored.WithLabelValues("passport", "error")))
}

func TestOracleSetVerifiedCount(t *testing.T) {
	m := Oracle()
	m.SetVerifiedCount(42)
	require.Equal(t, float64(42), testutil.ToFloat64(m.verifiedCount))
}

func TestGovernanceRecordFinalized(t *testing.T) {
	m := Governance()
	m.RecordFinalized("Passed")
	require.Equal(t, float64(1), testutil.ToFloat64(m.finalized.WithLabelValues("passed")))
}

func TestBridgeSetQuorum(t *testing.T) {
	m := Bridge()
	m.SetQuorum(7)
	require.Equal(t, float64(7), testutil.ToFloat64(m.quorumGauge))
}

func TestAttestationLabelUnknown(t *testing.T) {
	require.Equal(t, "unknown", attestationLabel("9"))
	require.Equal(t, "biometric", attestationLabel("3"))
}

func TestHopsObserveHopRecordsFailure(t *testing.T) {
	m := Hops()
	before := testutil.ToFloat64(m.hopFailed.WithLabelValues("oracle"))
	m.ObserveHop("oracle", 0, true)
	require.Equal(t, before+1, testutil.ToFloat64(m.hopFailed.WithLabelValues("oracle")))
}
