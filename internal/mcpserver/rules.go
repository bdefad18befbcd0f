package mcpserver

// DayRules describes how attendance and calendar tools behave, so LLM
// consumers can pick the right call without guessing.
const DayRules = `# yeargoals day rules

## Attendance

A day moves through: not-started -> working -> on-break -> working -> ... -> checked-out.

- clock_in: starts the day. Calling it again while working or on a break changes nothing.
  After clock_out it fails.
- start_break: only while working. Opens a new break.
- end_break: only while on a break. Closes the open break.
- clock_out: requires clock_in first. An open break is closed at the same instant.
  The day is then closed.

Totals are derived on every read. Each interval is truncated to whole minutes:
working = (check-out or now) - check-in - breaks.

## Calendar

- toggle_day marks a day completed, or removes a completed day.
- set_note writes a note and an optional day goal, keeping the completed flag.
- Under the "locked" policy only today can be changed and a completed day stays completed.

## Analytics

- completion_stats counts only days that have a record.
- current_streak counts consecutive completed days ending today; 0 if today is not completed.
`
