package memory

import "time"

const (
	byName = iota
	byDeletedDesc
	byDeletedAsc
)

func less(order int, nameA, nameB string, delA, delB *time.Time) bool {
	switch order {
	case byDeletedDesc, byDeletedAsc:
		if delA != nil && delB != nil && !delA.Equal(*delB) {
			if order == byDeletedDesc {
				return delA.After(*delB)
			}
			return delA.Before(*delB)
		}
	}
	return nameA < nameB
}
