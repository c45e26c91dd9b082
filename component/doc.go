// Package component defines the lifecycle contract for the infrastructure a
// feed run depends on, such as the warehouse connection and the transfer
// sink. Components are started in registration order before the run and
// stopped in reverse order after it.
package component
