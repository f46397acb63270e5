package generation

// CallOptions 单次生成调用的可选参数，由上游请求透传
type CallOptions struct {
	Provider    string
	Model       string
	Temperature *float32
	MaxTokens   *int
}

func (o CallOptions) apply(req *Request) {
	req.Provider = o.Provider
	req.Model = o.Model
	req.Temperature = o.Temperature
	req.MaxTokens = o.MaxTokens
}

// NewRequest 以调用参数构造请求骨架
func NewRequest(contract Contract, opts CallOptions) *Request {
	req := &Request{Contract: contract}
	opts.apply(req)
	return req
}
