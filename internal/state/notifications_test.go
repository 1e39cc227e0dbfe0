package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPushKeepsInsertionOrder(t *testing.T) {
	n := NewNotifications(time.Minute)

	idA := n.Success("已保存")
	idB := n.Error("保存失败")

	items := n.List()
	require.Len(t, items, 2)
	require.Equal(t, idA, items[0].ID)
	require.Equal(t, idB, items[1].ID)
	require.NotEqual(t, idA, idB)
	require.Equal(t, NotifySuccess, items[0].Type)
	require.Equal(t, NotifyError, items[1].Type)
}

func TestDismissRemovesOnlyTarget(t *testing.T) {
	n := NewNotifications(time.Minute)

	idA := n.Info("a")
	idB := n.Warning("b")

	n.Dismiss(idA)

	items := n.List()
	require.Len(t, items, 1)
	require.Equal(t, idB, items[0].ID)
}

func TestEntriesExpireOnIndependentTimers(t *testing.T) {
	n := NewNotifications(80 * time.Millisecond)

	n.Push(NotifySuccess, "a")
	time.Sleep(50 * time.Millisecond)
	idB := n.Push(NotifyInfo, "b")

	// a 先到期，b 的计时器从自己入队开始算
	require.Eventually(t, func() bool {
		items := n.List()
		return len(items) == 1 && items[0].ID == idB
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		return len(n.List()) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestEarlyDismissDoesNotAffectOtherTimers(t *testing.T) {
	n := NewNotifications(100 * time.Millisecond)

	idA := n.Push(NotifySuccess, "a")
	idB := n.Push(NotifyInfo, "b")

	n.Dismiss(idA)

	items := n.List()
	require.Len(t, items, 1)
	require.Equal(t, idB, items[0].ID, "提前关闭 a 不影响 b")

	require.Eventually(t, func() bool {
		return len(n.List()) == 0
	}, time.Second, 5*time.Millisecond)
}
