package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrForbidden          = errors.New("forbidden")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid database execution context")

	// Funnel errors
	ErrAlreadyPaid        = errors.New("already paid")
	ErrOrderMismatch      = errors.New("order id does not match the stored order")
	ErrPaymentIncomplete  = errors.New("payment not completed")
	ErrContactFeeRequired = errors.New("contact fee has not been paid")
	ErrCheckoutNotEnabled = errors.New("checkout is not enabled for this lead")
	ErrInvalidPackage     = errors.New("Invalid package")
	ErrInvalidPlan        = errors.New("unknown plan")

	// Subscription errors
	ErrSubscriptionActive  = errors.New("subscription is already active")
	ErrNoSubscription      = errors.New("service has no subscription")
	ErrSubscriptionPlanCfg = errors.New("gateway subscription plan is not configured")

	// Gateway errors
	ErrGatewayResponse = errors.New("unexpected gateway response")
	ErrNoApproveLink   = errors.New("gateway response missing approve link")

	// Storefront errors
	ErrCouponExpired   = errors.New("coupon is expired or inactive")
	ErrBadTransition   = errors.New("illegal order status transition")
	ErrLockNotAcquired = errors.New("could not acquire lock")
)
