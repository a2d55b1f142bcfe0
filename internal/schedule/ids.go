package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// NextID returns prefix + (largest numeric suffix among ids carrying prefix) + 1,
// zero padded to three digits. Ids freed by deletion are never reissued as long
// as a higher one survives.
func NextID(prefix string, ids []string) string {
	maxSeq := 0
	for _, id := range ids {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		n, err := strconv.Atoi(id[len(prefix):])
		if err != nil || n < 0 {
			continue
		}
		if n > maxSeq {
			maxSeq = n
		}
	}
	return fmt.Sprintf("%s%03d", prefix, maxSeq+1)
}

func patientIDs(ps []Patient) []string {
	ids := make([]string, len(ps))
	for i, p := range ps {
		ids[i] = p.ID
	}
	return ids
}

func doctorIDs(ds []Doctor) []string {
	ids := make([]string, len(ds))
	for i, d := range ds {
		ids[i] = d.ID
	}
	return ids
}

func appointmentIDs(as []Appointment) []string {
	ids := make([]string, len(as))
	for i, a := range as {
		ids[i] = a.ID
	}
	return ids
}
