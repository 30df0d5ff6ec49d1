/*
Package auction implements timed sales of collection tokens against
the fungible currency. Listing escrows the token by delegating it to
the contract, bids escrow funds on the contract account, and
settlement is requester driven after the deadline. No background timer
exists, an expired auction simply waits for a claim.
*/
package auction
