// Package classify defines the device classification capability consumed by
// the device builder, plus a role-pattern default implementation.
//
// A classifier inspects a grouping entry (channel or device kind) in the
// context of a full namespace snapshot and yields zero or more typed
// controls. Each control names a primary type tag ("light", "temperature",
// "blind", …) and the state identifiers contributing to it. The builder
// takes the first control's type as the device type and unions the state
// identifiers of all controls into the attached-state set.
//
// The capability is treated as pure: same snapshot and identifier, same
// result, no side effects. Installations can plug in their own
// implementation; RoleClassifier covers the common role conventions.
package classify
