package domain

import (
	"math/big"
	"time"
)

const (
	// PPM is the parts-per-million fixed-point base shared by tick units and
	// rate representations.
	PPM = 1_000_000
	// SecondsPerYear converts annualized rates to seconds (365 days).
	SecondsPerYear = 31_536_000
)

var (
	ppmBig  = big.NewInt(PPM)
	yearBig = big.NewInt(SecondsPerYear)
)

// Accrue computes the amounts owed for a deposit at the given evaluation
// time: the principal and the interest accrued since creation, net of the
// annual servicing fee.
//
// currentTicks is the reserve's tick counter at the evaluation time
// (ppm-seconds). Ticks before the deposit's baseline earn nothing. The fee
// accrues over the full elapsed duration but is clamped, in tick terms, to
// the interest actually earned, so net interest is never negative. All
// divisions floor; rounding loss is deliberate so the ledger never owes more
// than the reserve holds.
func Accrue(rec *DepositRecord, at time.Time, currentTicks *big.Int, feeAnnualPPM int64) (principal, netInterest *big.Int) {
	if rec == nil || rec.Principal == nil || rec.Principal.Sign() == 0 {
		return big.NewInt(0), big.NewInt(0)
	}

	principal = new(big.Int).Set(rec.Principal)
	if at.Before(rec.CreatedAt) {
		return principal, big.NewInt(0)
	}

	deltaTicks := new(big.Int).Sub(currentTicks, rec.TicksAtDeposit)
	if deltaTicks.Sign() < 0 {
		deltaTicks.SetInt64(0)
	}

	gross := ticksToAmount(deltaTicks, principal)

	duration := at.Unix() - rec.CreatedAt.Unix()
	feeableTicks := new(big.Int).Mul(big.NewInt(duration), big.NewInt(feeAnnualPPM))
	feeTicks := feeableTicks
	if feeableTicks.Cmp(deltaTicks) > 0 {
		feeTicks = deltaTicks
	}
	fee := ticksToAmount(feeTicks, principal)

	netInterest = big.NewInt(0)
	if gross.Cmp(fee) > 0 {
		netInterest.Sub(gross, fee)
	}
	return principal, netInterest
}

// ticksToAmount converts a tick delta (ppm-seconds) into currency for the
// given principal: floor(ticks * principal / 1e6 / secondsPerYear).
func ticksToAmount(ticks, principal *big.Int) *big.Int {
	out := new(big.Int).Mul(ticks, principal)
	out.Quo(out, ppmBig)
	out.Quo(out, yearBig)
	return out
}

// BatchBaseline computes the shared tick baseline for every deposit created
// in one batch: the current counter advanced by the interest the activation
// delay will withhold.
func BatchBaseline(currentTicks *big.Int, ratePPM int64, activationDelay time.Duration) *big.Int {
	delaySeconds := int64(activationDelay / time.Second)
	advance := new(big.Int).Mul(big.NewInt(ratePPM), big.NewInt(delaySeconds))
	return new(big.Int).Add(currentTicks, advance)
}
