// Package usage provides per-bucket usage counter stores for the
// entitlement engine. The engine itself never touches a store; callers
// snapshot counts before evaluating and increment after an allowed
// decision.
//
// A naive evaluate-then-increment sequence is a check-then-act race: two
// concurrent requests can both see an allowed decision against the same
// bucket and both increment past the limit. Store implementations
// therefore expose IncrementIfBelow, which atomically claims a slot only
// while the counter is still below the limit.
//
// Keys are opaque strings; build them with entitlement.UsageKey so the
// snapshot, the evaluator, and the increment path all agree on the bucket
// namespace. Counters expire at the bucket's reset instant, so stale
// windows clean themselves up.
//
// Two implementations ship here: MemoryStore for tests and single-node
// deployments, and RedisStore for anything shared.
package usage
