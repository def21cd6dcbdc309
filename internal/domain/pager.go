package domain

type Pager struct {
	Page      int `json:"page" validate:"gte=0"`
	PageSize  int `json:"pageSize" validate:"gte=0"`
	TotalRows int `json:"totalRows" validate:"gte=0"`
}

func (p Pager) TotalPages() int {
	if p.PageSize <= 0 || p.TotalRows <= 0 {
		return 0
	}
	return (p.TotalRows + p.PageSize - 1) / p.PageSize
}

func (p Pager) HasPrev() bool {
	return p.Page > 1
}

func (p Pager) HasNext() bool {
	return p.Page < p.TotalPages()
}
