package util

import "strconv"

// RunKey is the storage key of one run's report.
func RunKey(ns string, runID uint64) string {
	return "run:" + ns + ":" + strconv.FormatUint(runID, 10)
}

// LatestKey is the storage key pointing at the newest run.
func LatestKey(ns string) string {
	return "latest:" + ns
}

// SeqKey is the storage key of the run counter.
func SeqKey(ns string) string {
	return "seq:" + ns
}
