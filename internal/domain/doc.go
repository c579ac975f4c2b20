// Package domain models rain schedules and the lake-emptying plans that keep
// every lake from flooding.
//
// # Schedules
//
// A rain schedule covers n consecutive days. Day i holds the id of the lake
// that receives rain that day, or 0 when no rain falls:
//
//	[1, 2, 0, 0, 1, 2]  →  lakes 1 and 2 fill on days 0 and 1, days 2 and 3
//	                       are dry, lakes 1 and 2 receive rain again on days
//	                       4 and 5. The plan is [-1, -1, 1, 2, -1, -1].
//
// A single dry day cannot save two lakes: [1, 2, 0, 1, 2] floods lake 2 on
// day 4 whichever lake day 2 empties.
//
// Lake ids are positive and need not be contiguous or bounded. A lake is
// either empty or full. Rain on an empty lake fills it; rain on a full lake
// floods it. On a dry day exactly one lake may be emptied.
//
// # Plans
//
// An action schedule has the same length as the rain schedule:
//
//	rainy day  →  -1 (nothing can be done)
//	dry day    →  id of the lake emptied that day
//
// Dry days that are not needed are assigned lake 1 ([PlaceholderLake]).
// Emptying an empty or unknown lake is harmless, so the placeholder never
// changes the outcome of a replay.
//
// # Algorithm
//
// [PlanSchedule] scans the schedule once, left to right. Dry days go into an
// ordered pool. When rain hits a lake that has been full since day d, the
// earliest pooled dry day strictly after d is spent emptying it. If there is
// no such day the schedule is infeasible and the scan stops. Picking the
// earliest usable day leaves later dry days free for lakes that are filled
// later; any plan using a later day can swap it for the earliest one without
// breaking other assignments.
//
// The pool is a B-tree, so each rain event costs one O(log n) successor
// search and removal, and a full scan is O(n log n).
//
// # Outcomes
//
// [AvoidFlood] keeps the classic contract: the plan, or an empty slice when a
// flood cannot be avoided. An empty input also yields an empty slice, so
// callers that need to tell the two apart use [PlanSchedule], which reports
// [OutcomeFeasible], [OutcomeInfeasible] or [OutcomeEmptyInput] explicitly
// along with the day and lake of the first unavoidable flood.
//
// # Request IDs
//
// Requests without an id get a deterministic SHA-256 of the schedule (see
// [ScheduleKey]). Replaying the same schedule yields the same id, so
// downstream consumers can deduplicate without coordination.
package domain
