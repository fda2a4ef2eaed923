package physical

type ErrorCode int

const (
	InvalidPredicateColumn ErrorCode = iota + 1
	MalformedComparison
	MalformedPredicate
	InvalidSelectColumn
	InvalidGroupByColumn
	InvalidOrderByColumn
	InvalidAggregateArgument
	EmptyAggregate
)

type Error struct {
	ErrorCode ErrorCode
	Message   string
	Err       error
}

func (e Error) Error() string {
	return e.Message
}

func (e Error) Unwrap() error {
	return e.Err
}

func (e Error) Is(target error) bool {
	if other, ok := target.(Error); ok {
		ignoreErrorCode := other.ErrorCode == 0
		ignoreMessage := other.Message == ""
		matchErrorCode := other.ErrorCode == e.ErrorCode
		matchMessage := other.Message == e.Message

		return matchMessage && matchErrorCode || matchMessage && ignoreErrorCode || ignoreMessage && matchErrorCode
	}
	return false
}

func (e Error) Kind() string {
	switch e.ErrorCode {
	case InvalidPredicateColumn, MalformedComparison, MalformedPredicate:
		return "PredicateError"
	case InvalidSelectColumn, InvalidGroupByColumn, InvalidOrderByColumn:
		return "ProjectionError"
	case InvalidAggregateArgument, EmptyAggregate:
		return "AggregateError"
	default:
		return "ExecutionError"
	}
}
