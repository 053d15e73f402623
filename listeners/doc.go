/*
Package listeners provides ready-made lifecycle listeners.

Each listener implements events.Callbacks[T] and can be registered with a
repository or bound directly:

	audit, err := listeners.NewAuditing[Order](listeners.WithAuditor(currentUser))
	if err != nil {
	    return err
	}
	d := events.NewDispatcher(
	    audit.Listener(),
	    listeners.NewValidating[Order](nil).Listener(),
	)

Auditing stamps audit-tagged fields before a save. Validating rejects
entities that fail their validate tags with a single ValidationError.
Logging writes one zap entry per callback and Metrics counts callbacks in
dynamorepo_lifecycle_events_total.
*/
package listeners
