package payment

// Total is the running refund total.
var Total int64
