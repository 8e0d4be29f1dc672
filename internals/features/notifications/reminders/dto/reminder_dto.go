package dto

type ClassReminderRequest struct {
	ClassID string `json:"class_id" validate:"required,uuid"`
	Date    string `json:"date" validate:"omitempty,ymd"`
}

type Result struct {
	Email string `json:"email"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type Report struct {
	Sent    int      `json:"sent"`
	Failed  int      `json:"failed"`
	Results []Result `json:"results"`
}

func (r *Report) Add(email string, err error) {
	if err != nil {
		r.Failed++
		r.Results = append(r.Results, Result{Email: email, Error: err.Error()})
		return
	}
	r.Sent++
	r.Results = append(r.Results, Result{Email: email, OK: true})
}

func (r *Report) Merge(o *Report) {
	r.Sent += o.Sent
	r.Failed += o.Failed
	r.Results = append(r.Results, o.Results...)
}
