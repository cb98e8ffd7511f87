package chain

import "fmt"

// ApproveCallData encodes approve(proxy, approvalValue) for the asset's
// token contract.
func ApproveCallData(asset Asset) ([]byte, error) {
	if asset == nil {
		return nil, &EncodingError{Field: "asset", Err: ErrUnknownAsset}
	}
	if _, err := EncodeUint256(asset.ApprovalValue()); err != nil {
		return nil, &EncodingError{Field: "approvalValue", Err: ErrOutOfRange}
	}
	data, err := GetTokenABI().Pack("approve", asset.Proxy(), asset.ApprovalValue())
	if err != nil {
		return nil, fmt.Errorf("failed to pack approve: %w", err)
	}
	return data, nil
}
