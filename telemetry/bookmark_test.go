package telemetry

import (
	"testing"
)

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_VelocitySpike(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int64(i * 300), VelocityMax: 10})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 1500, VelocityMax: 50})
	if !hasBookmark(bookmarks, BookmarkVelocitySpike) {
		t.Error("expected velocity_spike bookmark")
	}
}

func TestBookmarkDetector_NoSpikeWithoutHistory(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(WindowStats{VelocityMax: 1})

	if bookmarks := bd.Check(WindowStats{VelocityMax: 100}); hasBookmark(bookmarks, BookmarkVelocitySpike) {
		t.Error("expected no spike with fewer than 3 windows of history")
	}
}

func TestBookmarkDetector_SettledFiresOnce(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bd.Check(WindowStats{DyeMean: 0.1})
	bd.Check(WindowStats{DyeMean: 0.05})

	if bookmarks := bd.Check(WindowStats{DyeMean: 0.005}); !hasBookmark(bookmarks, BookmarkSettled) {
		t.Fatal("expected settled bookmark once dye faded below 10% of peak")
	}
	if bookmarks := bd.Check(WindowStats{DyeMean: 0.004}); hasBookmark(bookmarks, BookmarkSettled) {
		t.Error("expected settled to fire only once")
	}

	// Fresh activity re-arms the detector
	bd.Check(WindowStats{DyeMean: 0.2})
	if bookmarks := bd.Check(WindowStats{DyeMean: 0.01}); !hasBookmark(bookmarks, BookmarkSettled) {
		t.Error("expected settled again after new activity")
	}
}

func TestBookmarkDetector_IdleFlowNeverSettles(t *testing.T) {
	bd := NewBookmarkDetector(10)
	for i := 0; i < 5; i++ {
		if bookmarks := bd.Check(WindowStats{DyeMean: 0}); len(bookmarks) != 0 {
			t.Errorf("expected no bookmarks for empty flow, got %v", bookmarks)
		}
	}
}

func TestBookmarkDetector_Lifecycle(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bookmarks := bd.Check(WindowStats{Restarts: 1, Resizes: 2, SimW: 32, SimH: 16})
	if !hasBookmark(bookmarks, BookmarkRestart) {
		t.Error("expected context_restart bookmark")
	}
	if !hasBookmark(bookmarks, BookmarkResize) {
		t.Error("expected resize bookmark")
	}
}
