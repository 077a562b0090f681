package roster

import (
	"fmt"
	"testing"

	"github.com/godilite/clinic-assistant/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeDoctors(n int) []schedule.Doctor {
	out := make([]schedule.Doctor, n)
	for i := range out {
		out[i] = schedule.Doctor{ID: int64(i + 1), Name: fmt.Sprintf("Doctor %03d", n-i)}
	}
	return out
}

func TestTotalPages(t *testing.T) {
	cases := map[int]int{0: 0, 1: 1, 7: 1, 8: 2, 14: 2, 15: 3}
	for total, want := range cases {
		assert.Equal(t, want, TotalPages(total), "total=%d", total)
	}
}

func TestPaginate_CoversEveryDoctorOnce(t *testing.T) {
	for n := 0; n <= 50; n++ {
		doctors := makeDoctors(n)
		seen := make(map[int64]int)
		var order []int64

		for page := 0; page < TotalPages(n); page++ {
			p := Paginate(doctors, page)
			assert.LessOrEqual(t, len(p.Doctors), PageSize)
			for _, d := range p.Doctors {
				seen[d.ID]++
				order = append(order, d.ID)
			}
		}

		require.Len(t, seen, n, "n=%d", n)
		for id, count := range seen {
			assert.Equal(t, 1, count, "n=%d id=%d", n, id)
		}
		for i, id := range order {
			assert.Equal(t, doctors[i].ID, id, "list order is preserved")
		}
	}
}

func TestPaginate_Flags(t *testing.T) {
	doctors := makeDoctors(15)

	first := Paginate(doctors, 0)
	assert.False(t, first.HasPrev)
	assert.True(t, first.HasNext)
	assert.Equal(t, 3, first.TotalPages)

	middle := Paginate(doctors, 1)
	assert.True(t, middle.HasPrev)
	assert.True(t, middle.HasNext)

	last := Paginate(doctors, 2)
	assert.True(t, last.HasPrev)
	assert.False(t, last.HasNext)
	assert.Len(t, last.Doctors, 1)

	single := Paginate(makeDoctors(3), 0)
	assert.False(t, single.HasPrev)
	assert.False(t, single.HasNext)
}

func TestPaginate_OutOfRange(t *testing.T) {
	doctors := makeDoctors(10)

	assert.Empty(t, Paginate(doctors, -1).Doctors)
	assert.Empty(t, Paginate(doctors, 2).Doctors)
	assert.Empty(t, Paginate(nil, 0).Doctors)
}

func TestPaginate_Deterministic(t *testing.T) {
	doctors := makeDoctors(20)
	assert.Equal(t, Paginate(doctors, 1), Paginate(doctors, 1))
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 0, ClampPage(-3, 20))
	assert.Equal(t, 2, ClampPage(9, 20))
	assert.Equal(t, 1, ClampPage(1, 20))
	assert.Equal(t, 0, ClampPage(4, 0))
}

func TestSearchByPrefix(t *testing.T) {
	doctors := []schedule.Doctor{
		{ID: 1, Name: "Иванова Мария"},
		{ID: 2, Name: "Петров Пётр"},
		{ID: 3, Name: "Иванов Иван"},
		{ID: 4, Name: "иванченко Олег"},
	}

	hits := SearchByPrefix(doctors, "Иван")
	require.Len(t, hits, 2)
	assert.Equal(t, "Иванов Иван", hits[0].Name)
	assert.Equal(t, "Иванова Мария", hits[1].Name)

	assert.Len(t, SearchByPrefix(doctors, "  Петров "), 1)
	assert.Empty(t, SearchByPrefix(doctors, "Сидоров"))
	assert.Empty(t, SearchByPrefix(doctors, ""))
}

func TestSearchByPrefix_Capped(t *testing.T) {
	doctors := makeDoctors(30)

	hits := SearchByPrefix(doctors, "Doctor")

	require.Len(t, hits, MaxSearchHits)
	assert.Equal(t, "Doctor 001", hits[0].Name)
	assert.Equal(t, "Doctor 020", hits[MaxSearchHits-1].Name)
}
