package handler

import (
	"testing"

	"github.com/guardia-dev/roster-manager/backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestWorkloadSeed(t *testing.T) {
	all := []*domain.Assignment{
		{ID: 1, ScheduleID: 10, Status: domain.AssignmentAssigned},  // 本班表的自动排班，会被删除重建
		{ID: 2, ScheduleID: 10, Status: domain.AssignmentPending},   // 本班表的手动排班，重新生成后幸存
		{ID: 3, ScheduleID: 10, Status: domain.AssignmentConfirmed}, // 同上
		{ID: 4, ScheduleID: 10, Status: domain.AssignmentDeclined},  // 同上
		{ID: 5, ScheduleID: 20, Status: domain.AssignmentAssigned},  // 其他班表的排班，全部保留
		{ID: 6, ScheduleID: 20, Status: domain.AssignmentConfirmed},
	}

	seed := workloadSeed(10, all)

	ids := make([]int64, 0, len(seed))
	for _, a := range seed {
		ids = append(ids, a.ID)
	}

	// 只有本班表中即将被重建的自动排班被剔除
	assert.Equal(t, []int64{2, 3, 4, 5, 6}, ids)
}
