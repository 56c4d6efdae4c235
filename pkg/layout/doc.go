// Package layout computes node positions for warehouse topologies.
//
// # Strategies
//
// Six strategies are registered by name:
//
//   - [Hierarchical]: ranked top-to-bottom layout with median ordering.
//   - [Horizontal]: ranked left-to-right layout; very large topologies fall
//     back to the flow layout.
//   - [Smart]: ranked left-to-right layout whose ordering weighs scanner
//     links and default routes more heavily.
//   - [Grid]: square grid in input order.
//   - [Radial]: nodes evenly spaced on a circle.
//   - [Flow]: warehouse chain tracing, one row per conveyor chain.
//
// # Ranked Pipeline
//
// The three ranked strategies share one pipeline:
//
//  1. [AssignRanks] computes longest-path ranks. Cycles are tolerated.
//  2. [OrderRanks] sweeps weighted medians down and up the ranks, keeping
//     the ordering with the fewest crossings ([CountCrossings]).
//  3. Each rank is spread along its axis and centered on the widest rank.
//
// # Purity
//
// Layouts never mutate their inputs and never touch selection, history or
// identifiers. The same input always yields the same output.
//
// # Usage
//
//	res, err := layout.Run(ctx, layout.Smart, layout.DefaultConfig(), nodes, edges)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Ranks, res.Crossings)
package layout
