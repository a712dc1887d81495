package pagination

import "testing"

func TestPageRequest_Offset(t *testing.T) {
	tests := []struct {
		name string
		req  PageRequest
		want int
	}{
		{"unbounded", PageRequest{}, 0},
		{"first_page", PageRequest{Page: 1, PageSize: 10}, 0},
		{"third_page", PageRequest{Page: 3, PageSize: 10}, 20},
		{"page_without_size", PageRequest{Page: 4}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Offset(); got != tt.want {
				t.Errorf("Offset() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPageRequest_Defaults(t *testing.T) {
	tests := []struct {
		name string
		req  PageRequest
		want int
	}{
		{"nothing_given", PageRequest{}, 1},
		{"size_only", PageRequest{PageSize: 10}, 1},
		{"page_and_size", PageRequest{Page: 3, PageSize: 10}, 3},
		{"page_without_size", PageRequest{Page: 3}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			req.Defaults()
			if req.Page != tt.want {
				t.Errorf("Page = %d, want %d", req.Page, tt.want)
			}
		})
	}
}

func TestNewPageResponse(t *testing.T) {
	t.Run("bounded", func(t *testing.T) {
		resp := NewPageResponse([]int{1, 2}, 1, 2, 5)
		if resp.TotalPages != 3 {
			t.Errorf("expected 3 pages, got %d", resp.TotalPages)
		}
	})

	t.Run("unbounded", func(t *testing.T) {
		resp := NewPageResponse([]int{1, 2, 3}, 1, 0, 3)
		if resp.TotalPages != 1 {
			t.Errorf("expected 1 page, got %d", resp.TotalPages)
		}
	})

	t.Run("nil_data_becomes_empty", func(t *testing.T) {
		resp := NewPageResponse[int](nil, 1, 0, 0)
		if resp.Data == nil || len(resp.Data) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", resp.Data)
		}
		if resp.TotalPages != 0 {
			t.Errorf("expected 0 pages, got %d", resp.TotalPages)
		}
	})
}
