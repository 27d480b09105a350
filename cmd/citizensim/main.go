package main

import (
	"crypto/ed25519"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"strings"

	"verifiedgov/chainsim"
	"verifiedgov/config"
	"verifiedgov/core/events"
	"verifiedgov/dao"
	"verifiedgov/native/bridge"
	"verifiedgov/native/governance"
	"verifiedgov/native/oracle"
	"verifiedgov/observability/logging"
	"verifiedgov/signing"
	"verifiedgov/storage"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("CITIZENSIM_ENV"))
	logger := logging.Setup("citizensim", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	emitter := events.Multi{events.LogEmitter{Logger: logger}}

	oracleC := oracle.New(chainsim.AccountID(cfg.OracleAccount), storage.NewMemDB(), emitter)
	if err := oracleC.Init(cfg.BackendWallet); err != nil {
		logger.Error("failed to init oracle", slog.Any("error", err))
		os.Exit(1)
	}

	governanceRunner := chainsim.NewRunner(logger)
	governanceC := governance.New(
		governance.NewStore(storage.NewMemDB()),
		emitter,
		oracleC.QueryVerificationForPromise,
		governanceRunner,
		governance.Params{
			GasCreateProposal: chainsim.Gas(cfg.Global.Gas.CreateProposal) * chainsim.TGas,
			GasVote:           chainsim.Gas(cfg.Global.Gas.Vote) * chainsim.TGas,
			GasFinalize:       chainsim.Gas(cfg.Global.Gas.FinalizeProposal) * chainsim.TGas,
			DefaultQuorumPct:  cfg.Global.Governance.DefaultQuorumPct,
			VotingPeriodSecs:  int64(cfg.Global.Governance.VotingPeriodSecs),
		},
	)
	if err := governanceC.Init(cfg.OracleAccount); err != nil {
		logger.Error("failed to init governance ledger", slog.Any("error", err))
		os.Exit(1)
	}

	memDAO := dao.NewMemoryDAO(cfg.CitizenRole)
	bridgeRunner := chainsim.NewRunner(logger)
	bridgeC := bridge.New(
		bridge.NewStore(storage.NewMemDB()),
		emitter,
		memDAO,
		oracleC.IsVerified,
		bridgeRunner,
		bridge.Params{
			GasAddMemberTotal: chainsim.Gas(cfg.Global.Gas.BridgeAddMember) * chainsim.TGas,
			GasCreateProposal: chainsim.Gas(cfg.Global.Gas.CreateProposal) * chainsim.TGas,
		},
	)
	if err := bridgeC.Init(bridge.Config{
		BackendWallet: cfg.BackendWallet,
		DAOAccount:    cfg.DAOAccount,
		OracleAccount: cfg.OracleAccount,
		CitizenRole:   cfg.CitizenRole,
	}); err != nil {
		logger.Error("failed to init bridge", slog.Any("error", err))
		os.Exit(1)
	}

	const alice = "alice.near"
	const genesisTimestamp int64 = 1_700_000_000

	backendCtx := &chainsim.Context{
		Predecessor:     chainsim.AccountID(cfg.BackendWallet),
		Current:         chainsim.AccountID(cfg.OracleAccount),
		AttachedDeposit: chainsim.OneYocto(),
		BlockTimestamp:  genesisTimestamp,
	}

	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		logger.Error("failed to generate demo keypair", slog.Any("error", err))
		os.Exit(1)
	}
	var nonce [signing.NonceSize]byte
	copy(nonce[:], []byte("citizensim-demo-nonce-0123456789"))
	payload := signing.Payload{Message: "verify", Nonce: nonce, Recipient: alice}
	sig := signing.Sign(priv, payload)

	storeErr := oracleC.StoreVerification(backendCtx, oracle.StoreVerificationArgs{
		Nullifier:     "demo-nullifier-alice",
		AccountID:     alice,
		AttestationID: oracle.AttestationPassport,
		Signature: oracle.SignatureData{
			AccountID: alice,
			Signature: sig,
			PublicKey: signing.EncodePublicKey(pub),
			Challenge: "verify",
			Nonce:     nonce[:],
			Recipient: alice,
		},
		Proof: oracle.ProofBlob{PublicSignals: []string{"1", "2"}},
	})
	if storeErr != nil {
		logger.Error("store_verification failed", slog.Any("error", storeErr))
		os.Exit(1)
	}
	logger.Info("alice.near verified")

	proposalCtx := &chainsim.Context{
		Predecessor:     alice,
		Current:         chainsim.AccountID(cfg.LedgerAccount),
		AttachedDeposit: chainsim.OneYocto(),
		BlockTimestamp:  genesisTimestamp + 3600,
	}
	proposalID, err := governanceC.CreateProposal(proposalCtx, "Adopt community grants program",
		"Allocate treasury funds to recurring community grants.", "", 0)
	if err != nil {
		logger.Error("create_proposal failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("proposal created", slog.Uint64("proposalId", proposalID))

	voteCtx := &chainsim.Context{
		Predecessor:     alice,
		Current:         chainsim.AccountID(cfg.LedgerAccount),
		AttachedDeposit: chainsim.OneYocto(),
		BlockTimestamp:  genesisTimestamp + 7200,
	}
	if err := governanceC.Vote(voteCtx, proposalID, governance.ChoiceYes); err != nil {
		logger.Error("vote failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("alice.near voted", slog.String("choice", string(governance.ChoiceYes)))

	finalizeCtx := &chainsim.Context{
		Predecessor:    alice,
		Current:        chainsim.AccountID(cfg.LedgerAccount),
		BlockTimestamp: genesisTimestamp + int64(governance.VotingPeriodSeconds) + 7200,
	}
	countQuery := func() ([]byte, error) {
		n, err := oracleC.GetVerifiedCount()
		if err != nil {
			return nil, err
		}
		return []byte(fmt.Sprintf("%d", n)), nil
	}
	status, err := governanceC.FinalizeProposal(finalizeCtx, proposalID, countQuery)
	if err != nil {
		logger.Error("finalize_proposal failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("proposal finalized", slog.String("status", string(status)))

	bridgeCtx := &chainsim.Context{
		Predecessor:     chainsim.AccountID(cfg.BackendWallet),
		Current:         chainsim.AccountID(cfg.BridgeAccount),
		AttachedDeposit: big.NewInt(0),
		BlockTimestamp:  genesisTimestamp + int64(governance.VotingPeriodSeconds) + 7200,
	}
	if err := bridgeC.AddMember(bridgeCtx, alice); err != nil {
		logger.Error("add_member failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("alice.near added to DAO citizen role", slog.String("role", cfg.CitizenRole))
}
