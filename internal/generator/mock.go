package generator

import (
	"encoding/json"
	"strings"
)

const mockName = "MockComponent"

// MockSnippet is the component served in development when a backend fails.
// The prompt is embedded as a string literal so it cannot change the code.
func MockSnippet(prompt string) string {
	quoted, _ := json.Marshal("Generated for: \"" + prompt + "\"")
	comment := strings.ReplaceAll(prompt, "*/", "* /")

	return `import React from 'react';

interface ` + mockName + `Props {
  className?: string;
}

/**
 * Mock component generated for prompt: "` + comment + `"
 */
const ` + mockName + `: React.FC<` + mockName + `Props> = ({ className = '' }) => {
  return (
    <div className={` + "`bg-gradient-to-r from-blue-500 to-purple-600 text-white p-8 rounded-lg shadow-lg ${className}`" + `}>
      <div className="max-w-4xl mx-auto text-center">
        <h1 className="text-4xl font-bold mb-4">
          Mock Component
        </h1>
        <p className="text-xl mb-6 opacity-90">
          {` + string(quoted) + `}
        </p>
        <button className="bg-white text-blue-600 px-6 py-3 rounded-lg font-semibold hover:bg-gray-100 transition-colors">
          Get Started
        </button>
      </div>
    </div>
  );
};

export default ` + mockName + `;`
}
