/*
Package events dispatches entity lifecycle events to type-bound listeners.

Seven kinds exist. BeforeSave, AfterSave, BeforeDelete, AfterDelete and
AfterLoad carry a single entity. AfterQuery and AfterScan carry a lazily
iterated Collection, which a bound listener walks element by element:

	type welcome struct {
	    events.Base[User]
	}

	func (welcome) OnAfterSave(ctx context.Context, u *User) error {
	    return mailer.Send(ctx, u.Email)
	}

	d := events.NewDispatcher(events.Bind[User](welcome{}), audit, validation)
	err := d.Dispatch(ctx, events.NewAfterSave(&user))

Listeners run in registration order; the first error stops delivery and is
returned to the caller.
*/
package events
