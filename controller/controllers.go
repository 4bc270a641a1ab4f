// controller/controllers.go
package controller

// Controllers aggregates every route handler for router setup.
type Controllers struct {
	Ledger       *LedgerController
	Transparency *TransparencyController
	Compliance   *ComplianceController
	ZK           *ZKController
	Auth         *AuthController
	Mirror       *MirrorController
}
