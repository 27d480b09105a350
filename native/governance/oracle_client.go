package governance

import "encoding/json"

// verificationView is the JSON shape the Ledger decodes out of the
// Oracle's query-promise payload (spec §4.2.2: "decode as JSON of the
// expected type; on decode failure, fail"). It intentionally only carries
// the fields the Ledger's callbacks need, not the Oracle's full record.
type verificationView struct {
	AccountID  string `json:"accountId"`
	VerifiedAt int64  `json:"verifiedAt"`
}

func decodeVerification(payload []byte) (*verificationView, error) {
	var v verificationView
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// OracleQuery schedules the cross-contract "is this account verified, and
// since when" call the Ledger's verify-then-act hops depend on. It returns
// the Oracle's full record payload, or an error if the account has no
// record (mirroring a failed promise).
type OracleQuery func(account string) ([]byte, error)
