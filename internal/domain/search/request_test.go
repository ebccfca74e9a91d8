package search

import "testing"

func TestRequest_Offset(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want int
	}{
		{"first page", Request{Page: 1, PageSize: 10}, 0},
		{"second page", Request{Page: 2, PageSize: 5}, 5},
		{"zero page", Request{Page: 0, PageSize: 10}, 0},
		{"negative page", Request{Page: -3, PageSize: 10}, 0},
		{"negative page size", Request{Page: 4, PageSize: -1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Offset(); got != tt.want {
				t.Errorf("Offset() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewResponse(t *testing.T) {
	resp := NewResponse([]string{"a", "b"}, 10, 5, 12)

	if resp.Page != 3 {
		t.Errorf("page: got %d, want 3", resp.Page)
	}
	if resp.PageSize != 5 {
		t.Errorf("page size: got %d, want 5", resp.PageSize)
	}
	if resp.TotalSize != 12 {
		t.Errorf("total size: got %d, want 12", resp.TotalSize)
	}
	if resp.TotalPages != 3 {
		t.Errorf("total pages: got %d, want 3", resp.TotalPages)
	}
}

func TestNewResponse_NilData(t *testing.T) {
	resp := NewResponse[int](nil, 0, 10, 0)

	if resp.Data == nil {
		t.Fatal("data must serialize as an empty list, not null")
	}
	if len(resp.Data) != 0 {
		t.Errorf("data: got %v", resp.Data)
	}
	if resp.TotalPages != 0 {
		t.Errorf("total pages: got %d, want 0", resp.TotalPages)
	}
}

func TestNewResponse_ZeroPageSize(t *testing.T) {
	resp := NewResponse(make([]int, 3), 0, 0, 3)

	if resp.PageSize != DefaultPageSize {
		t.Errorf("page size: got %d, want %d", resp.PageSize, DefaultPageSize)
	}
	if resp.Page != 1 {
		t.Errorf("page: got %d, want 1", resp.Page)
	}
	if resp.TotalPages != 1 {
		t.Errorf("total pages: got %d, want 1", resp.TotalPages)
	}
}

func TestNewResponse_ExactFit(t *testing.T) {
	resp := NewResponse(make([]int, 5), 5, 5, 10)

	if resp.Page != 2 {
		t.Errorf("page: got %d, want 2", resp.Page)
	}
	if resp.TotalPages != 2 {
		t.Errorf("total pages: got %d, want 2", resp.TotalPages)
	}
}
